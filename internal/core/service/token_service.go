package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

const defaultTokenTTL = 15 * time.Minute

// TokenService issues HS256 bearer tokens and verifies them against the token
// store. A stored row is required for a token to count as live: signature
// validity alone is necessary but not sufficient.
type TokenService struct {
	accounts  ports.AccountRepository
	tokens    ports.TokenRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewTokenService(accounts ports.AccountRepository, tokens ports.TokenRepository, jwtSecret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &TokenService{accounts: accounts, tokens: tokens, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.sign(account)
	if err != nil {
		return nil, err
	}

	token := &domain.Token{
		AccountID: account.ID,
		Token:     signed,
		TokenType: domain.TokenTypeBearer,
	}
	// Upsert keeps one row per account: issuing this token invalidates any
	// previously issued one.
	if err := s.tokens.Upsert(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *TokenService) VerifyLocal(ctx context.Context, accountID, token string) error {
	if err := s.parse(token); err != nil {
		return err
	}
	ok, err := s.tokens.Exists(ctx, accountID, token)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (s *TokenService) VerifyByIdentity(ctx context.Context, publicID, token string) error {
	account, err := s.accounts.FindByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.ErrTokenInvalid
		}
		return err
	}
	return s.VerifyLocal(ctx, account.ID, token)
}

func (s *TokenService) sign(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":       account.Username,
		"public_id": account.PublicID,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// parse checks signature and expiry. Any failure collapses to ErrTokenInvalid;
// callers are never told which check failed.
func (s *TokenService) parse(token string) error {
	tkn, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.ErrTokenInvalid
	}
	return nil
}
