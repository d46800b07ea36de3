package tasks_test

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/appboilerplate/taskmanager/internal/shared"
	"github.com/appboilerplate/taskmanager/internal/tasks"
)

type stubRepo struct {
	mu    sync.Mutex
	tasks map[string]tasks.Task

	listErr   error
	deleteErr error
}

var _ tasks.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{tasks: make(map[string]tasks.Task)}
}

func (s *stubRepo) Create(ctx context.Context, task *tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *stubRepo) List(ctx context.Context, ownerID string, q tasks.ListQuery) ([]tasks.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tasks.Task
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b tasks.Task) int {
		var c int
		switch q.SortBy {
		case tasks.SortDescription:
			c = cmp.Compare(a.Description, b.Description)
		case tasks.SortUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		case tasks.SortCompleted:
			c = cmp.Compare(boolInt(a.Completed), boolInt(b.Completed))
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if q.Desc {
			c = -c
		}
		return c
	})
	if q.Skip >= len(out) {
		return nil, nil
	}
	out = out[q.Skip:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *stubRepo) Get(ctx context.Context, ownerID, id string) (*tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (s *stubRepo) Update(ctx context.Context, task *tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[task.ID]
	if !ok || t.OwnerID != task.OwnerID {
		return shared.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, ownerID, id string) (*tasks.Task, error) {
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	delete(s.tasks, id)
	return &t, nil
}

func (s *stubRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks {
		if t.OwnerID == ownerID {
			delete(s.tasks, id)
		}
	}
	return nil
}

func (s *stubRepo) count(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}
