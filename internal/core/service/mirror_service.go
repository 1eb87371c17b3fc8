package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// MirrorService applies account lifecycle events to the local account mirror
// and answers the local privilege check over it.
type MirrorService struct {
	repo ports.MirrorRepository
	log  zerolog.Logger
}

func NewMirrorService(repo ports.MirrorRepository, log zerolog.Logger) *MirrorService {
	return &MirrorService{repo: repo, log: log}
}

// Apply routes one event by its operation tag. Unknown tags are an error so
// the consumer can count them; the consumer loop advances regardless.
func (s *MirrorService) Apply(ctx context.Context, event domain.AccountEvent) error {
	switch event.Op {
	case domain.AccountEventCreate:
		return s.applyCreate(ctx, event.Payload)
	case domain.AccountEventUpdate:
		return s.applyUpdate(ctx, event.Payload)
	case domain.AccountEventDelete:
		return s.applyDelete(ctx, event.Payload)
	default:
		return fmt.Errorf("unknown account event op %q", event.Op)
	}
}

func (s *MirrorService) applyCreate(ctx context.Context, payload []byte) error {
	var p domain.AccountEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode create event: %w", err)
	}
	if err := s.repo.Insert(ctx, mirrorFrom(p)); err != nil {
		return fmt.Errorf("mirror insert: %w", err)
	}
	s.log.Info().Str("public_id", p.PublicID).Msg("mirror account created")
	return nil
}

// applyUpdate overwrites the whole mirror row. Fields absent from the payload
// arrive as nulls and null out the stored values; this is deliberately not a
// partial merge.
func (s *MirrorService) applyUpdate(ctx context.Context, payload []byte) error {
	var p domain.AccountEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode update event: %w", err)
	}
	if err := s.repo.Overwrite(ctx, mirrorFrom(p)); err != nil {
		return fmt.Errorf("mirror overwrite: %w", err)
	}
	s.log.Info().Str("public_id", p.PublicID).Msg("mirror account updated")
	return nil
}

func (s *MirrorService) applyDelete(ctx context.Context, payload []byte) error {
	var p domain.AccountDeletePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode delete event: %w", err)
	}
	if err := s.repo.Delete(ctx, p.UserID); err != nil {
		return fmt.Errorf("mirror delete: %w", err)
	}
	s.log.Info().Str("public_id", p.UserID).Msg("mirror account deleted")
	return nil
}

func (s *MirrorService) IsPrivileged(ctx context.Context, publicID string) (bool, error) {
	account, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if err == domain.ErrMirrorAccountNotFound {
			return false, nil
		}
		return false, err
	}
	return account.Role.Privileged(), nil
}

func mirrorFrom(p domain.AccountEventPayload) *domain.MirrorAccount {
	return &domain.MirrorAccount{
		PublicID:  p.PublicID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
	}
}
