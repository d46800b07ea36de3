package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

const taskColumns = `id, owner_id, description, completed, created_at, updated_at`

// PostgresRepository stores tasks in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a PostgreSQL backed repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanTask(row pgx.CollectableRow) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, err
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.OwnerID, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: tasks: owner %s", shared.ErrNotFound, task.OwnerID)
		}
		return persistence("insert task", err)
	}
	return nil
}

// sortColumns whitelists ORDER BY targets.
var sortColumns = map[SortField]string{
	SortCreatedAt:   "created_at",
	SortUpdatedAt:   "updated_at",
	SortDescription: "description",
	SortCompleted:   "completed",
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, q ListQuery) ([]Task, error) {
	var sb strings.Builder
	args := []any{ownerID}
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	if q.Completed != nil {
		args = append(args, *q.Completed)
		fmt.Fprintf(&sb, ` AND completed = $%d`, len(args))
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id %s`, column, dir, dir)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}
	args = append(args, q.Skip)
	fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, persistence("list tasks", err)
	}
	list, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, persistence("list tasks", err)
	}
	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return nil, persistence("get task", err)
	}
	return collectOne(rows, "get task")
}

func (r *PostgresRepository) Update(ctx context.Context, task *Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET description = $3, completed = $4, updated_at = $5 WHERE id = $1 AND owner_id = $2`,
		task.ID, task.OwnerID, task.Description, task.Completed, task.UpdatedAt)
	if err != nil {
		return persistence("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (*Task, error) {
	rows, err := r.pool.Query(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING `+taskColumns, id, ownerID)
	if err != nil {
		return nil, persistence("delete task", err)
	}
	return collectOne(rows, "delete task")
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID); err != nil {
		return persistence("delete owner tasks", err)
	}
	return nil
}

func collectOne(rows pgx.Rows, op string) (*Task, error) {
	task, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, persistence(op, err)
	}
	return &task, nil
}
