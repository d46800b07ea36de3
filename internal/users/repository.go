package users

import (
	"context"

	"github.com/appboilerplate/taskmanager/internal/auth"
)

// Repository persists accounts. It extends the session store used by
// auth.Service with the profile operations.
type Repository interface {
	auth.Repository

	// Create inserts acct. A taken email fails with shared.ErrDuplicate.
	Create(ctx context.Context, acct *auth.Account) error
	FindByID(ctx context.Context, id string) (*auth.Account, error)
	// UpdateProfile writes name, email, password hash, age and updated_at.
	// Tokens and avatar are left untouched.
	UpdateProfile(ctx context.Context, acct *auth.Account) error
	// SetAvatar writes acct.Avatar; a nil avatar clears it.
	SetAvatar(ctx context.Context, acct *auth.Account) error
}
