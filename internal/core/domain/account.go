package domain

// Role is the account privilege level. Lower value means higher privilege.
type Role int

const (
	RoleAdmin   Role = 1
	RoleManager Role = 2
	RoleClient  Role = 3
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleClient
}

// Privileged reports whether the role may act on behalf of the organisation
// (admins and managers). Used both for authorization checks and for drawing
// the task assignment pool.
func (r Role) Privileged() bool {
	return r <= RoleManager
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// Account is the authoritative identity record owned by the auth service.
// PublicID is the only identity that crosses the service boundary; the
// internal storage id never leaves the auth service.
type Account struct {
	ID           string  `json:"-"`
	PublicID     string  `json:"public_id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Role         Role    `json:"role"`
}

// TokenTypeBearer is the only token type the auth service issues.
const TokenTypeBearer = "bearer"

// Token is the single current bearer token for an account. The storage layer
// keeps at most one row per account, so issuing a new token supersedes the
// previous session even though the old JWT may still verify cryptographically.
type Token struct {
	AccountID string `json:"-"`
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
}

// MirrorAccount is the task tracker's local, eventually-consistent copy of an
// account, maintained solely by the account event consumer.
type MirrorAccount struct {
	PublicID  string  `json:"user_public_id"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Role      Role    `json:"role"`
}
