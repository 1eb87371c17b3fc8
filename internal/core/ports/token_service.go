package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// TokenService issues and verifies bearer tokens. Verification always consults
// the token store: signature mismatch, expiry and an absent storage row all
// collapse to domain.ErrTokenInvalid.
type TokenService interface {
	// Login authenticates the credentials and issues a fresh token,
	// superseding any previously issued token for the account.
	Login(ctx context.Context, username, password string) (*domain.Token, error)
	// VerifyLocal checks a token against the store by internal account id.
	VerifyLocal(ctx context.Context, accountID, token string) error
	// VerifyByIdentity answers the same question keyed by the externally
	// visible public UUID. This is the shape exposed across the service
	// boundary.
	VerifyByIdentity(ctx context.Context, publicID, token string) error
}
