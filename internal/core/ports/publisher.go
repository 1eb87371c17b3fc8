package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// AccountEventPublisher publishes account lifecycle events to the durable
// account channel. Publication happens after the local commit; a publish
// failure never rolls the commit back (at-least-once, possibly lossy).
type AccountEventPublisher interface {
	Publish(ctx context.Context, event domain.AccountEvent) error
}
