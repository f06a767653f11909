// Package directory holds the business entities the auth core protects.
// Companies are the representative resource; brands and influencers in the
// original deployment follow the same shape.
package directory

import (
	"context"
	"errors"
	"time"
)

var ErrCompanyNotFound = errors.New("company not found")

type Company struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email,omitempty"`
	Active      bool      `json:"active"` // Soft delete is a toggle, records are never removed
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type CompanyRepo interface {
	Insert(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, offset, limit int) ([]*Company, error)
	SetActive(ctx context.Context, id string, active bool) (*Company, error)
}
