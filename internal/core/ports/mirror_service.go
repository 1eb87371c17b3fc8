package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// MirrorService applies account events to the local mirror and answers local
// authorization questions over it.
type MirrorService interface {
	// Apply routes one event to its handler by operation tag. Errors are
	// returned for observability; the consumer loop logs and advances
	// regardless of outcome.
	Apply(ctx context.Context, event domain.AccountEvent) error
	// IsPrivileged reports whether a mirror row exists for publicID with a
	// role of manager or better. Pure local read, no network call.
	IsPrivileged(ctx context.Context, publicID string) (bool, error)
}
