package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/platform/ids"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// Mailer delivers the signup welcome email.
type Mailer interface {
	SendWelcome(ctx context.Context, name, email string) error
}

// Service handles account profile business logic.
type Service struct {
	repo      Repository
	sessions  *auth.Service
	mailer    Mailer
	logger    *slog.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewService builds Service instance. mailer may be nil.
func NewService(repo Repository, sessions *auth.Service, mailer Mailer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		sessions:  sessions,
		mailer:    mailer,
		logger:    logger,
		validator: NewValidator(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewValidator returns a validator with the "nopassword" rule registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nopassword", func(fl validator.FieldLevel) bool {
		return !strings.Contains(strings.ToLower(fl.Field().String()), "password")
	})
	return v
}

// Signup registers an account and issues its first session token.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*auth.Account, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = auth.NormalizeEmail(input.Email)
	if err := s.validator.Struct(input); err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	hash, err := s.sessions.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	acct := &auth.Account{
		ID:           ids.New(now),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Age:          input.Age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, "", fmt.Errorf("users: create account: %w", err)
	}

	token, err := s.sessions.GenerateAuthToken(ctx, acct)
	if err != nil {
		return nil, "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, acct.Name, acct.Email); err != nil {
			s.logger.Error("send welcome email", slog.String("account_id", acct.ID), slog.Any("error", err))
		}
	}
	return acct, token, nil
}

// UpdateProfile applies patch to acct and persists it.
func (s *Service) UpdateProfile(ctx context.Context, acct *auth.Account, patch ProfilePatch) (*auth.Account, error) {
	updated := *acct
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.validator.Var(name, "required"); err != nil {
			return nil, fmt.Errorf("%w: name: %v", shared.ErrValidation, err)
		}
		updated.Name = name
	}
	if patch.Email != nil {
		email := auth.NormalizeEmail(*patch.Email)
		if err := s.validator.Var(email, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: email: %v", shared.ErrValidation, err)
		}
		updated.Email = email
	}
	if patch.Age != nil {
		if err := s.validator.Var(*patch.Age, "gte=0"); err != nil {
			return nil, fmt.Errorf("%w: age: %v", shared.ErrValidation, err)
		}
		updated.Age = *patch.Age
	}
	if patch.Password != nil {
		if err := s.validator.Var(*patch.Password, "required,min=7,max=72,nopassword"); err != nil {
			return nil, fmt.Errorf("%w: password: %v", shared.ErrValidation, err)
		}
		hash, err := s.sessions.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("users: update profile: %w", err)
	}
	*acct = updated
	return acct, nil
}

// SetAvatar validates, normalizes and stores an uploaded avatar.
func (s *Service) SetAvatar(ctx context.Context, acct *auth.Account, filename string, data []byte) error {
	if err := CheckAvatarUpload(filename, int64(len(data))); err != nil {
		return err
	}
	png, err := NormalizeAvatar(data)
	if err != nil {
		return err
	}
	return s.storeAvatar(ctx, acct, png)
}

// ClearAvatar removes the stored avatar.
func (s *Service) ClearAvatar(ctx context.Context, acct *auth.Account) error {
	return s.storeAvatar(ctx, acct, nil)
}

func (s *Service) storeAvatar(ctx context.Context, acct *auth.Account, png []byte) error {
	updated := *acct
	updated.Avatar = png
	updated.UpdatedAt = s.now()
	if err := s.repo.SetAvatar(ctx, &updated); err != nil {
		return fmt.Errorf("users: set avatar: %w", err)
	}
	*acct = updated
	return nil
}

// Avatar returns the PNG avatar of the account with the given id.
func (s *Service) Avatar(ctx context.Context, id string) ([]byte, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("users: find account: %w", err)
	}
	if !acct.HasAvatar() {
		return nil, shared.ErrNoAvatar
	}
	return acct.Avatar, nil
}
