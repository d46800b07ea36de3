package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/platform/db"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

const accountColumns = `id, name, email, password_hash, age, avatar, created_at, updated_at`

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores accounts in PostgreSQL with one account_tokens
// row per live session.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a PostgreSQL backed repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, acct *auth.Account) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			acct.ID, acct.Name, acct.Email, acct.PasswordHash, acct.Age, acct.Avatar, acct.CreatedAt, acct.UpdatedAt)
		if err != nil {
			return translate("insert account", err)
		}
		for _, token := range acct.Tokens {
			if err := insertToken(ctx, tx, acct.ID, token); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByToken(ctx context.Context, id, token string) (*auth.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE id = $1 AND EXISTS (SELECT 1 FROM account_tokens t WHERE t.account_id = accounts.id AND t.token = $2)`, id, token)
}

func (r *PostgresRepository) findOne(ctx context.Context, sql string, args ...any) (*auth.Account, error) {
	var acct auth.Account
	err := r.pool.QueryRow(ctx, sql, args...).Scan(
		&acct.ID, &acct.Name, &acct.Email, &acct.PasswordHash, &acct.Age, &acct.Avatar, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, translate("find account", err)
	}
	acct.CreatedAt = acct.CreatedAt.UTC()
	acct.UpdatedAt = acct.UpdatedAt.UTC()

	rows, err := r.pool.Query(ctx, `SELECT token FROM account_tokens WHERE account_id = $1 ORDER BY id`, acct.ID)
	if err != nil {
		return nil, translate("list tokens", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, translate("list tokens", err)
	}
	acct.Tokens = tokens
	return &acct, nil
}

func (r *PostgresRepository) AddToken(ctx context.Context, id, token string) error {
	return insertToken(ctx, r.pool, id, token)
}

func insertToken(ctx context.Context, q querier, id, token string) error {
	_, err := q.Exec(ctx, `INSERT INTO account_tokens (account_id, token) VALUES ($1, $2)`, id, token)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return shared.ErrNotFound
	}
	if err != nil {
		return translate("insert token", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveToken(ctx context.Context, id, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM account_tokens WHERE account_id = $1 AND token = $2`, id, token); err != nil {
		return translate("delete token", err)
	}
	return nil
}

func (r *PostgresRepository) ClearTokens(ctx context.Context, id string) error {
	var found int
	err := r.pool.QueryRow(ctx, `WITH acct AS (SELECT id FROM accounts WHERE id = $1),
		cleared AS (DELETE FROM account_tokens WHERE account_id IN (SELECT id FROM acct))
		SELECT count(*) FROM acct`, id).Scan(&found)
	if err != nil {
		return translate("clear tokens", err)
	}
	if found == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, acct *auth.Account) error {
	return r.execOne(ctx, r.pool, "update account",
		`UPDATE accounts SET name = $2, email = $3, password_hash = $4, age = $5, updated_at = $6 WHERE id = $1`,
		acct.ID, acct.Name, acct.Email, acct.PasswordHash, acct.Age, acct.UpdatedAt)
}

func (r *PostgresRepository) SetAvatar(ctx context.Context, acct *auth.Account) error {
	return r.execOne(ctx, r.pool, "update avatar",
		`UPDATE accounts SET avatar = $2, updated_at = $3 WHERE id = $1`,
		acct.ID, acct.Avatar, acct.UpdatedAt)
}

// Delete removes the account and its tokens in one transaction. Rows owned by
// other resources must be gone already.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM account_tokens WHERE account_id = $1`, id); err != nil {
			return translate("delete tokens", err)
		}
		return r.execOne(ctx, tx, "delete account", `DELETE FROM accounts WHERE id = $1`, id)
	})
}

func (r *PostgresRepository) execOne(ctx context.Context, q querier, op, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return translate(op, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// translate maps PostgreSQL errors onto the shared sentinels.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return fmt.Errorf("%w: users: %s: %s", shared.ErrDuplicate, op, pgErr.ConstraintName)
		}
	}
	return persistence(op, err)
}
