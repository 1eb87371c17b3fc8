package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// TokenRepository stores the single current bearer token per account.
type TokenRepository interface {
	// Upsert replaces any existing token row for the account. A second login
	// invalidates the first session at the storage layer.
	Upsert(ctx context.Context, token *domain.Token) error
	// Exists reports whether exactly this (account id, token) pair is stored.
	// Storage presence is the authority for "still issued"; cryptographic
	// validity alone is not sufficient.
	Exists(ctx context.Context, accountID, token string) (bool, error)
}
