package ports

import "context"

// TokenChecker validates a presented token against the auth service. Any
// ambiguity (network error, non-200, timeout) reports false: authorization
// fails closed.
type TokenChecker interface {
	CheckToken(ctx context.Context, publicID, token string) bool
}
