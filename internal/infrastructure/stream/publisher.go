// Package stream implements the account event channel on Redis Streams.
// A stream gives the channel the properties the services rely on: durable
// entries, strict arrival order, and at-least-once delivery through a
// consumer group.
package stream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskforge/taskforge/internal/api/metrics"
	"github.com/taskforge/taskforge/internal/core/domain"
)

// Publisher appends account events to the account stream. One Publisher is
// shared per process.
type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, event domain.AccountEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"op":      string(event.Op),
			"payload": event.Payload,
		},
	}).Err()
	if err != nil {
		metrics.AccountEventsPublishErrorsTotal.Inc()
		return fmt.Errorf("publish account event: %w", err)
	}
	metrics.AccountEventsPublishedTotal.WithLabelValues(string(event.Op)).Inc()
	return nil
}
