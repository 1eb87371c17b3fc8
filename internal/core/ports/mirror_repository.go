package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// MirrorRepository persists the task tracker's local account mirror. It is
// mutated only by the account event consumer, never by direct user action.
type MirrorRepository interface {
	Insert(ctx context.Context, account *domain.MirrorAccount) error
	// Overwrite replaces every mutable field of the mirrored row, including
	// with nulls. A partial update event is not a partial merge.
	Overwrite(ctx context.Context, account *domain.MirrorAccount) error
	Delete(ctx context.Context, publicID string) error
	FindByPublicID(ctx context.Context, publicID string) (*domain.MirrorAccount, error)
	// ListEligible returns every mirrored account privileged enough to own
	// tasks (role <= manager).
	ListEligible(ctx context.Context) ([]domain.MirrorAccount, error)
}
