package tasks

import "context"

// Repository persists tasks. Every lookup is scoped to the owning account;
// a task owned by someone else is reported as shared.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	List(ctx context.Context, ownerID string, q ListQuery) ([]Task, error)
	Get(ctx context.Context, ownerID, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, ownerID, id string) (*Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
}
