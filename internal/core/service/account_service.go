package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// AccountService implements the authoritative account lifecycle. Every
// successful commit is followed by one event on the account channel; a
// publish failure is logged and accepted, never rolled back.
type AccountService struct {
	repo      ports.AccountRepository
	publisher ports.AccountEventPublisher
	log       zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, publisher ports.AccountEventPublisher, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, publisher: publisher, log: log}
}

func (s *AccountService) Register(ctx context.Context, input ports.RegisterAccountInput) (*domain.Account, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := input.Role
	if role == 0 {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		PublicID:     uuid.NewString(),
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         role,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.AccountEventCreate, payloadFor(created))
	s.log.Info().Str("public_id", created.PublicID).Str("username", created.Username).Msg("account created")
	return created, nil
}

func (s *AccountService) Update(ctx context.Context, input ports.UpdateAccountInput) (*domain.Account, error) {
	if input.PublicID == "" {
		return nil, domain.ErrAccountNotFound
	}
	role := input.Role
	if role == 0 {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	updated, err := s.repo.Update(ctx, &domain.Account{
		PublicID:  input.PublicID,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      role,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.AccountEventUpdate, payloadFor(updated))
	s.log.Info().Str("public_id", updated.PublicID).Msg("account updated")
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, publicID string) error {
	if err := s.repo.DeleteByPublicID(ctx, publicID); err != nil {
		return err
	}

	body, _ := json.Marshal(domain.AccountDeletePayload{UserID: publicID})
	s.publish(ctx, domain.AccountEventDelete, body)
	s.log.Info().Str("public_id", publicID).Msg("account deleted")
	return nil
}

// publish sends one account event after a successful commit. Failures leave
// the mirror to diverge until the account is next mutated; there is no outbox
// or retry.
func (s *AccountService) publish(ctx context.Context, op domain.AccountEventOp, payload []byte) {
	if err := s.publisher.Publish(ctx, domain.AccountEvent{Op: op, Payload: payload}); err != nil {
		s.log.Error().Err(err).Str("op", string(op)).Msg("account event publish failed")
	}
}

func payloadFor(a *domain.Account) []byte {
	body, _ := json.Marshal(domain.AccountEventPayload{
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
		PublicID:  a.PublicID,
	})
	return body
}
