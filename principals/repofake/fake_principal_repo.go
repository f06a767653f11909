package repofake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-directory-auth/principals"
)

var _ principals.Repo = (*FakePrincipalRepo)(nil)

// FakePrincipalRepo is an in-memory credential store used by tests and by
// deployments without a database. LoginKey uniqueness is enforced
// case-insensitively, matching the postgres unique index.
type FakePrincipalRepo struct {
	records  map[string]*principals.Principal
	keyIndex map[string]string // lowercased login key -> principal id
	lock     sync.RWMutex
}

func NewFakePrincipalRepo() *FakePrincipalRepo {
	return &FakePrincipalRepo{
		records:  make(map[string]*principals.Principal),
		keyIndex: make(map[string]string),
	}
}

func (r *FakePrincipalRepo) Insert(_ context.Context, p *principals.Principal) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := strings.ToLower(p.LoginKey)
	if _, exists := r.keyIndex[key]; exists {
		return principals.ErrDuplicateLoginKey
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := *p
	r.records[p.ID] = &stored
	r.keyIndex[key] = p.ID
	return nil
}

func (r *FakePrincipalRepo) Update(_ context.Context, p *principals.Principal) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	existing, ok := r.records[p.ID]
	if !ok {
		return principals.ErrNotFound
	}

	key := strings.ToLower(p.LoginKey)
	if id, exists := r.keyIndex[key]; exists && id != p.ID {
		return principals.ErrDuplicateLoginKey
	}
	delete(r.keyIndex, strings.ToLower(existing.LoginKey))
	r.keyIndex[key] = p.ID

	p.UpdatedAt = time.Now()
	stored := *p
	r.records[p.ID] = &stored
	return nil
}

func (r *FakePrincipalRepo) GetByID(_ context.Context, id string) (*principals.Principal, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.records[id]
	if !ok {
		return nil, principals.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *FakePrincipalRepo) GetByLoginKey(_ context.Context, loginKey string) (*principals.Principal, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.keyIndex[strings.ToLower(loginKey)]
	if !ok {
		return nil, principals.ErrNotFound
	}
	copied := *r.records[id]
	return &copied, nil
}

func (r *FakePrincipalRepo) SetActive(_ context.Context, id string, active bool) (*principals.Principal, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	p, ok := r.records[id]
	if !ok {
		return nil, principals.ErrNotFound
	}
	p.Active = active
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (r *FakePrincipalRepo) List(_ context.Context, offset, limit int) ([]*principals.Principal, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*principals.Principal, 0, len(r.records))
	for _, p := range r.records {
		copied := *p
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LoginKey < all[j].LoginKey })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
