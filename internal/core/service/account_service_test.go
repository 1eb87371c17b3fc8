package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	accounts  map[string]*domain.Account // keyed by username
	nextID    int
	createErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	created := cloneAccount(account)
	created.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.accounts[created.Username] = cloneAccount(created)
	return cloneAccount(created), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByPublicID(_ context.Context, publicID string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.PublicID == publicID {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for username, a := range r.accounts {
		if a.PublicID == account.PublicID {
			updated := cloneAccount(account)
			updated.ID = a.ID
			updated.PasswordHash = a.PasswordHash
			delete(r.accounts, username)
			r.accounts[updated.Username] = cloneAccount(updated)
			return cloneAccount(updated), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) DeleteByPublicID(_ context.Context, publicID string) error {
	for username, a := range r.accounts {
		if a.PublicID == publicID {
			delete(r.accounts, username)
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

type stubPublisher struct {
	events     []domain.AccountEvent
	publishErr error
}

func (p *stubPublisher) Publish(_ context.Context, event domain.AccountEvent) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, event)
	return nil
}

func strptr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAccountService_Register_PublishesCreateEvent(t *testing.T) {
	repo := newStubAccountRepo()
	pub := &stubPublisher{}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	account, err := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username:  "alice",
		Password:  "pass123",
		Email:     strptr("alice@example.com"),
		FirstName: strptr("Alice"),
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.PublicID == "" {
		t.Fatalf("expected a public id")
	}
	if account.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pass123")) != nil {
		t.Fatalf("stored hash does not match password")
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Op != domain.AccountEventCreate {
		t.Fatalf("expected create event, got %s", ev.Op)
	}
	var payload domain.AccountEventPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.PublicID != account.PublicID || payload.Username != "alice" || payload.Role != domain.RoleManager {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.LastName != nil {
		t.Fatalf("absent field must serialise as null, got %q", *payload.LastName)
	}
}

func TestAccountService_Register_DefaultsToClientRole(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubPublisher{}, zerolog.Nop())

	account, err := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username: "bob",
		Password: "pass",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %d", account.Role)
	}
}

func TestAccountService_Register_NoEventOnStorageFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.createErr = errors.New("db down")
	pub := &stubPublisher{}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username: "carol", Password: "x",
	}); err == nil {
		t.Fatalf("expected error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event may be published when the commit failed")
	}
}

func TestAccountService_Register_PublishFailureDoesNotFailOperation(t *testing.T) {
	repo := newStubAccountRepo()
	pub := &stubPublisher{publishErr: errors.New("broker down")}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	account, err := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username: "dave", Password: "x",
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the registration: %v", err)
	}
	if _, err := repo.FindByUsername(context.Background(), account.Username); err != nil {
		t.Fatalf("account must be committed despite publish failure: %v", err)
	}
}

func TestAccountService_Update_PublishesFullOverwritePayload(t *testing.T) {
	repo := newStubAccountRepo()
	pub := &stubPublisher{}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	account, err := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username:  "erin",
		Password:  "x",
		Email:     strptr("erin@example.com"),
		FirstName: strptr("Erin"),
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Update carries no email and no first name: the event must carry nulls,
	// not the previous values.
	if _, err := svc.Update(context.Background(), ports.UpdateAccountInput{
		PublicID: account.PublicID,
		Username: "erin2",
		Role:     domain.RoleManager,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	ev := pub.events[1]
	if ev.Op != domain.AccountEventUpdate {
		t.Fatalf("expected update event, got %s", ev.Op)
	}
	var payload domain.AccountEventPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.Username != "erin2" || payload.Role != domain.RoleManager {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Email != nil || payload.FirstName != nil {
		t.Fatalf("omitted fields must be null in the update payload")
	}
}

func TestAccountService_Delete_PublishesIdentityOnly(t *testing.T) {
	repo := newStubAccountRepo()
	pub := &stubPublisher{}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	account, _ := svc.Register(context.Background(), ports.RegisterAccountInput{
		Username: "frank", Password: "x",
	})

	if err := svc.Delete(context.Background(), account.PublicID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	ev := pub.events[len(pub.events)-1]
	if ev.Op != domain.AccountEventDelete {
		t.Fatalf("expected delete event, got %s", ev.Op)
	}
	var payload domain.AccountDeletePayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.UserID != account.PublicID {
		t.Fatalf("expected user_id %s, got %s", account.PublicID, payload.UserID)
	}
}

func TestAccountService_Delete_UnknownAccount(t *testing.T) {
	repo := newStubAccountRepo()
	pub := &stubPublisher{}
	svc := NewAccountService(repo, pub, zerolog.Nop())

	if err := svc.Delete(context.Background(), "no-such-id"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event may be published for a failed delete")
	}
}
