package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-directory-auth/directory"
)

var _ directory.CompanyRepo = (*Repo)(nil)

// Repo stores companies in postgres.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Schema returns the DDL the repo expects.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS companies (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    website     TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL DEFAULT '',
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`
}

func (r *Repo) Insert(ctx context.Context, c *directory.Company) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `INSERT INTO companies (id, name, description, website, email, active)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Description, c.Website, c.Email, c.Active).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, c *directory.Company) error {
	query := `UPDATE companies
	          SET name = $1, description = $2, website = $3, email = $4, active = $5, updated_at = now()
	          WHERE id = $6
	          RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Description, c.Website, c.Email, c.Active, c.ID).
		Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return directory.ErrCompanyNotFound
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*directory.Company, error) {
	query := `SELECT id, name, description, website, email, active, created_at, updated_at
	          FROM companies WHERE id = $1`
	return scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]*directory.Company, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, name, description, website, email, active, created_at, updated_at
	          FROM companies ORDER BY name OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var result []*directory.Company
	for rows.Next() {
		c := &directory.Company{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Website, &c.Email, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return result, nil
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool) (*directory.Company, error) {
	query := `UPDATE companies SET active = $1, updated_at = now()
	          WHERE id = $2
	          RETURNING id, name, description, website, email, active, created_at, updated_at`
	return scanOne(r.pool.QueryRow(ctx, query, active, id))
}

func scanOne(row pgx.Row) (*directory.Company, error) {
	c := &directory.Company{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Website, &c.Email, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, directory.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return c, nil
}
