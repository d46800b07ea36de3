package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/appboilerplate/taskmanager/internal/platform/ids"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// Service handles task business logic.
type Service struct {
	repo      Repository
	validator *validator.Validate
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new task for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Task, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	now := s.now()
	task := &Task{
		ID:          ids.New(now),
		OwnerID:     ownerID,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("tasks: create: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching q, at most MaxLimit of them.
func (s *Service) List(ctx context.Context, ownerID string, q ListQuery) ([]Task, error) {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	list, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// Get returns one task of the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	if !ids.Valid(id) {
		return nil, shared.ErrNotFound
	}
	return s.repo.Get(ctx, ownerID, id)
}

// Update applies patch to the owner's task.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch Patch) (*Task, error) {
	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if err := s.validator.Var(description, "required"); err != nil {
			return nil, fmt.Errorf("%w: description: %v", shared.ErrValidation, err)
		}
		task.Description = description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("tasks: update: %w", err)
	}
	return task, nil
}

// Delete removes the owner's task and returns it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (*Task, error) {
	if !ids.Valid(id) {
		return nil, shared.ErrNotFound
	}
	task, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("tasks: delete: %w", err)
	}
	return task, nil
}

// DeleteByOwner removes every task of the owner. It runs before the owning
// account is deleted.
func (s *Service) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := s.repo.DeleteByOwner(ctx, ownerID); err != nil {
		return fmt.Errorf("tasks: delete by owner: %w", err)
	}
	return nil
}
