package users_test

import (
	"context"
	"slices"
	"sync"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/shared"
	"github.com/appboilerplate/taskmanager/internal/users"
)

type stubRepo struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account

	createErr error
	updateErr error
	avatarErr error
}

var _ users.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[string]*auth.Account)}
}

func clone(a *auth.Account) *auth.Account {
	cp := *a
	cp.Tokens = slices.Clone(a.Tokens)
	cp.Avatar = slices.Clone(a.Avatar)
	return &cp
}

func (s *stubRepo) emailTaken(email, except string) bool {
	for id, a := range s.accounts {
		if a.Email == email && id != except {
			return true
		}
	}
	return false
}

func (s *stubRepo) Create(ctx context.Context, acct *auth.Account) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(acct.Email, "") {
		return shared.ErrDuplicate
	}
	s.accounts[acct.ID] = clone(acct)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return clone(a), nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return clone(a), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByToken(ctx context.Context, id, token string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || !a.HasToken(token) {
		return nil, shared.ErrNotFound
	}
	return clone(a), nil
}

func (s *stubRepo) AddToken(ctx context.Context, id, token string) error {
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
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.Tokens = slices.DeleteFunc(a.Tokens, func(t string) bool { return t == token })
	}
	return nil
}

func (s *stubRepo) ClearTokens(ctx context.Context, id string) error {
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
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *stubRepo) UpdateProfile(ctx context.Context, acct *auth.Account) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[acct.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if s.emailTaken(acct.Email, acct.ID) {
		return shared.ErrDuplicate
	}
	a.Name, a.Email, a.PasswordHash, a.Age, a.UpdatedAt = acct.Name, acct.Email, acct.PasswordHash, acct.Age, acct.UpdatedAt
	return nil
}

func (s *stubRepo) SetAvatar(ctx context.Context, acct *auth.Account) error {
	if s.avatarErr != nil {
		return s.avatarErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[acct.ID]
	if !ok {
		return shared.ErrNotFound
	}
	a.Avatar = slices.Clone(acct.Avatar)
	a.UpdatedAt = acct.UpdatedAt
	return nil
}

type mailerStub struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mailerStub) SendWelcome(ctx context.Context, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}
