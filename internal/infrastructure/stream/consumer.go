package stream

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskforge/taskforge/internal/api/metrics"
	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

const (
	readBlock = 5 * time.Second
	retryWait = time.Second
)

// Consumer is the single long-running subscriber that applies account events
// to the local mirror. It reads one entry at a time, strictly sequentially;
// concurrent application would race on the mirror rows. A handler failure is
// logged and counted, then the entry is acknowledged anyway: delivery is not
// retried.
type Consumer struct {
	client  *redis.Client
	handler ports.MirrorService
	stream  string
	group   string
	name    string
	log     zerolog.Logger
}

func NewConsumer(client *redis.Client, handler ports.MirrorService, stream, group, name string, log zerolog.Logger) *Consumer {
	return &Consumer{
		client:  client,
		handler: handler,
		stream:  stream,
		group:   group,
		name:    name,
		log:     log,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.log.Info().Str("stream", c.stream).Str("group", c.group).Msg("account event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Msg("stream read failed")
			time.Sleep(retryWait)
			continue
		}

		for _, s := range res {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
				if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
					c.log.Error().Err(err).Str("id", msg.ID).Msg("stream ack failed")
				}
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	op, _ := msg.Values["op"].(string)
	payload, _ := msg.Values["payload"].(string)

	event := domain.AccountEvent{
		Op:      domain.AccountEventOp(op),
		Payload: []byte(payload),
	}

	if err := c.handler.Apply(ctx, event); err != nil {
		label := op
		if label == "" {
			label = "unknown"
		}
		metrics.MirrorEventsFailedTotal.WithLabelValues(label).Inc()
		c.log.Error().Err(err).Str("id", msg.ID).Str("op", op).Msg("account event not applied")
		return
	}
	metrics.MirrorEventsProcessedTotal.WithLabelValues(op).Inc()
}

// ensureGroup creates the consumer group at the start of the stream. A group
// that already exists is fine.
func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}
