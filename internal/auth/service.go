package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/crypto/bcrypt"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

// OwnedResources removes data owned by an account before the account itself
// is deleted.
type OwnedResources interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// EventRecorder counts session lifecycle events.
type EventRecorder interface {
	RecordAuthEvent(event string)
}

// Auth events reported to EventRecorder.
const (
	EventLogin          = "login"
	EventLoginFailed    = "login_failed"
	EventLogout         = "logout"
	EventLogoutAll      = "logout_all"
	EventAccountDeleted = "account_deleted"
)

// ServiceConfig collects optional collaborators of Service.
type ServiceConfig struct {
	Logger   *slog.Logger
	Owned    []OwnedResources
	Events   EventRecorder
	HashCost int
}

// Service owns the credential and session-token lifecycle of an account.
type Service struct {
	repo      Repository
	signer    *TokenSigner
	logger    *slog.Logger
	owned     []OwnedResources
	events    EventRecorder
	hashCost  int
	dummyHash []byte
}

// NewService constructs a new Service.
func NewService(repo Repository, signer *TokenSigner, cfg ServiceConfig) *Service {
	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// Compared against when the email is unknown so both failure paths pay
	// the same bcrypt cost.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("unknown-account"), cost)
	return &Service{
		repo:      repo,
		signer:    signer,
		logger:    logger,
		owned:     cfg.Owned,
		events:    cfg.Events,
		hashCost:  cost,
		dummyHash: dummy,
	}
}

// HashPassword returns the bcrypt hash of password using the service cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return string(hash), nil
}

// FindByCredentials validates an email/password pair. Unknown emails and
// wrong passwords fail with the same shared.ErrInvalidCredentials; store
// failures are returned wrapped so callers can answer with a retryable error.
func (s *Service) FindByCredentials(ctx context.Context, email, password string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		s.logger.Warn("find account by email", slog.Any("error", err))
		return nil, fmt.Errorf("auth: find by email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return acct, nil
}

// GenerateAuthToken mints a token for acct and appends it to the account's
// live sessions.
func (s *Service) GenerateAuthToken(ctx context.Context, acct *Account) (string, error) {
	token, err := s.signer.Sign(acct.ID)
	if err != nil {
		return "", err
	}
	if err := s.repo.AddToken(ctx, acct.ID, token); err != nil {
		return "", fmt.Errorf("auth: add token: %w", err)
	}
	acct.Tokens = append(acct.Tokens, token)
	return token, nil
}

// Login verifies credentials and issues a new session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	acct, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		if shared.IsAuthError(err) {
			s.record(EventLoginFailed)
		}
		return nil, "", err
	}
	token, err := s.GenerateAuthToken(ctx, acct)
	if err != nil {
		return nil, "", err
	}
	s.record(EventLogin)
	return acct, token, nil
}

// Authenticate resolves token to its owning account. A token whose signature
// does not verify fails with shared.ErrInvalidToken; a token that verifies but
// is no longer held by the account fails with shared.ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	id, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	acct, err := s.repo.FindByToken(ctx, id, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth: find by token: %w", err)
	}
	return acct, nil
}

// Revoke removes token from the account's sessions. Revoking an absent token
// is a no-op.
func (s *Service) Revoke(ctx context.Context, acct *Account, token string) error {
	if err := s.repo.RemoveToken(ctx, acct.ID, token); err != nil {
		return fmt.Errorf("auth: remove token: %w", err)
	}
	acct.Tokens = slices.DeleteFunc(acct.Tokens, func(t string) bool { return t == token })
	s.record(EventLogout)
	return nil
}

// RevokeAll ends every session of the account.
func (s *Service) RevokeAll(ctx context.Context, acct *Account) error {
	if err := s.repo.ClearTokens(ctx, acct.ID); err != nil {
		return fmt.Errorf("auth: clear tokens: %w", err)
	}
	acct.Tokens = nil
	s.record(EventLogoutAll)
	return nil
}

// DeleteAccount removes the account with its tokens and every resource it owns.
func (s *Service) DeleteAccount(ctx context.Context, acct *Account) error {
	for _, owned := range s.owned {
		if err := owned.DeleteByOwner(ctx, acct.ID); err != nil {
			return fmt.Errorf("auth: delete owned resources: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, acct.ID); err != nil {
		return fmt.Errorf("auth: delete account: %w", err)
	}
	acct.Tokens = nil
	s.record(EventAccountDeleted)
	return nil
}

func (s *Service) record(event string) {
	if s.events != nil {
		s.events.RecordAuthEvent(event)
	}
}
