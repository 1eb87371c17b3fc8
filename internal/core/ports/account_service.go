package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// RegisterAccountInput carries the data needed to create an account.
type RegisterAccountInput struct {
	Username  string
	Password  string
	Email     *string
	FirstName *string
	LastName  *string
	Role      domain.Role
}

// UpdateAccountInput overwrites the mutable fields of an existing account.
// Nil fields clear the stored value; the matching account event propagates
// the same full-overwrite semantics to the mirror.
type UpdateAccountInput struct {
	PublicID  string
	Username  string
	Email     *string
	FirstName *string
	LastName  *string
	Role      domain.Role
}

// AccountService manages the authoritative account lifecycle. Every committed
// mutation publishes one account event after the commit succeeds.
type AccountService interface {
	Register(ctx context.Context, input RegisterAccountInput) (*domain.Account, error)
	Update(ctx context.Context, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, publicID string) error
}
