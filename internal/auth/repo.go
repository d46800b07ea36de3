package auth

import "context"

// Repository defines the persistence operations the session lifecycle needs.
//
// Token mutations are per-token atomic in every backend: AddToken and
// RemoveToken never rewrite the whole token list, so a login racing a
// logout on the same account cannot drop the other's token.
//
// Implementations return errors wrapping shared.ErrNotFound for a missing
// account and shared.ErrPersistence for storage failures. RemoveToken is the
// exception: removing from a missing account is a no-op.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindByToken returns the account with the given id only while token is
	// still in its token list.
	FindByToken(ctx context.Context, id, token string) (*Account, error)
	AddToken(ctx context.Context, id, token string) error
	RemoveToken(ctx context.Context, id, token string) error
	ClearTokens(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
