package principals

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("principal not found")
	ErrDuplicateLoginKey = errors.New("login key already in use")
)

// Repo is the credential store. Implementations must enforce uniqueness of
// LoginKey (case-insensitive) among stored principals and must persist each
// mutation atomically - a failed Insert or Update leaves no partial record.
type Repo interface {
	Insert(ctx context.Context, principal *Principal) error
	Update(ctx context.Context, principal *Principal) error
	GetByID(ctx context.Context, id string) (*Principal, error)
	GetByLoginKey(ctx context.Context, loginKey string) (*Principal, error)
	SetActive(ctx context.Context, id string, active bool) (*Principal, error)
	List(ctx context.Context, offset, limit int) ([]*Principal, error)
}
