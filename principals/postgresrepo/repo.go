package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-directory-auth/principals"
)

const uniqueViolationCode = "23505"

var _ principals.Repo = (*Repo)(nil)

// Repo stores principals in postgres. The principals table carries a unique
// index on lower(login_key), so duplicate registrations surface as a
// constraint violation rather than a read-then-write race.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Schema returns the DDL the repo expects. Applied by the operator or a
// migration tool, not by the service itself.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS principals (
    id              UUID PRIMARY KEY,
    login_key       TEXT NOT NULL,
    credential_hash TEXT NOT NULL,
    role            TEXT NOT NULL,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS principals_login_key_idx ON principals (lower(login_key));`
}

func (r *Repo) Insert(ctx context.Context, p *principals.Principal) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `INSERT INTO principals (id, login_key, credential_hash, role, active)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.LoginKey, p.CredentialHash, p.Role, p.Active).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return principals.ErrDuplicateLoginKey
		}
		return fmt.Errorf("insert principal: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, p *principals.Principal) error {
	query := `UPDATE principals
	          SET login_key = $1, credential_hash = $2, role = $3, active = $4, updated_at = now()
	          WHERE id = $5
	          RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, p.LoginKey, p.CredentialHash, p.Role, p.Active, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return principals.ErrNotFound
		}
		if isUniqueViolation(err) {
			return principals.ErrDuplicateLoginKey
		}
		return fmt.Errorf("update principal: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*principals.Principal, error) {
	query := `SELECT id, login_key, credential_hash, role, active, created_at, updated_at
	          FROM principals WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *Repo) GetByLoginKey(ctx context.Context, loginKey string) (*principals.Principal, error) {
	query := `SELECT id, login_key, credential_hash, role, active, created_at, updated_at
	          FROM principals WHERE lower(login_key) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, loginKey))
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool) (*principals.Principal, error) {
	query := `UPDATE principals SET active = $1, updated_at = now()
	          WHERE id = $2
	          RETURNING id, login_key, credential_hash, role, active, created_at, updated_at`
	return r.scanOne(r.pool.QueryRow(ctx, query, active, id))
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]*principals.Principal, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, login_key, credential_hash, role, active, created_at, updated_at
	          FROM principals ORDER BY login_key OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer rows.Close()

	var result []*principals.Principal
	for rows.Next() {
		p := &principals.Principal{}
		if err := rows.Scan(&p.ID, &p.LoginKey, &p.CredentialHash, &p.Role, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan principal: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	return result, nil
}

func (r *Repo) scanOne(row pgx.Row) (*principals.Principal, error) {
	p := &principals.Principal{}
	err := row.Scan(&p.ID, &p.LoginKey, &p.CredentialHash, &p.Role, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, principals.ErrNotFound
		}
		return nil, fmt.Errorf("scan principal: %w", err)
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
