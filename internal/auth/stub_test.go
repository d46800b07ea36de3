package auth_test

import (
	"context"
	"slices"
	"sync"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// ============================================================================
// STUB REPOSITORY
// ============================================================================

type stubRepo struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account

	// Error injection
	findEmailErr   error
	addTokenErr    error
	removeTokenErr error
	clearErr       error
	deleteErr      error
	findTokenErr   error
}

func newStubRepo(accounts ...*auth.Account) *stubRepo {
	repo := &stubRepo{accounts: make(map[string]*auth.Account)}
	for _, a := range accounts {
		cp := *a
		cp.Tokens = slices.Clone(a.Tokens)
		repo.accounts[a.ID] = &cp
	}
	return repo
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if s.findEmailErr != nil {
		return nil, s.findEmailErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			cp.Tokens = slices.Clone(a.Tokens)
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByToken(ctx context.Context, id, token string) (*auth.Account, error) {
	if s.findTokenErr != nil {
		return nil, s.findTokenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || !a.HasToken(token) {
		return nil, shared.ErrNotFound
	}
	cp := *a
	cp.Tokens = slices.Clone(a.Tokens)
	return &cp, nil
}

func (s *stubRepo) AddToken(ctx context.Context, id, token string) error {
	if s.addTokenErr != nil {
		return s.addTokenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Tokens = append(a.Tokens, token)
	return nil
}

func (s *stubRepo) RemoveToken(ctx context.Context, id, token string) error {
	if s.removeTokenErr != nil {
		return s.removeTokenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.Tokens = slices.DeleteFunc(a.Tokens, func(t string) bool { return t == token })
	}
	return nil
}

func (s *stubRepo) ClearTokens(ctx context.Context, id string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Tokens = nil
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *stubRepo) tokens(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		return slices.Clone(a.Tokens)
	}
	return nil
}

type ownedStub struct {
	deleted []string
	err     error
}

func (o *ownedStub) DeleteByOwner(ctx context.Context, ownerID string) error {
	if o.err != nil {
		return o.err
	}
	o.deleted = append(o.deleted, ownerID)
	return nil
}

type eventStub struct {
	events []string
}

func (e *eventStub) RecordAuthEvent(event string) {
	e.events = append(e.events, event)
}

var _ auth.Repository = (*stubRepo)(nil)
