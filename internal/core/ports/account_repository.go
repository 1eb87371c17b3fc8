package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// AccountRepository defines persistence for the authoritative account store.
// It is owned exclusively by the auth service.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByPublicID(ctx context.Context, publicID string) (*domain.Account, error)
	// Update overwrites the mutable fields of the account identified by
	// publicID and returns the updated record.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	DeleteByPublicID(ctx context.Context, publicID string) error
}
