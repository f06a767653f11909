package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-directory-auth/directory"
)

var _ directory.CompanyRepo = (*FakeCompanyRepo)(nil)

// FakeCompanyRepo is an in-memory company store for tests.
type FakeCompanyRepo struct {
	records map[string]*directory.Company
	lock    sync.RWMutex
}

func NewFakeCompanyRepo() *FakeCompanyRepo {
	return &FakeCompanyRepo{records: make(map[string]*directory.Company)}
}

func (r *FakeCompanyRepo) Insert(_ context.Context, c *directory.Company) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	r.records[c.ID] = &stored
	return nil
}

func (r *FakeCompanyRepo) Update(_ context.Context, c *directory.Company) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.records[c.ID]; !ok {
		return directory.ErrCompanyNotFound
	}
	c.UpdatedAt = time.Now()
	stored := *c
	r.records[c.ID] = &stored
	return nil
}

func (r *FakeCompanyRepo) GetByID(_ context.Context, id string) (*directory.Company, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	c, ok := r.records[id]
	if !ok {
		return nil, directory.ErrCompanyNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *FakeCompanyRepo) List(_ context.Context, offset, limit int) ([]*directory.Company, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*directory.Company, 0, len(r.records))
	for _, c := range r.records {
		copied := *c
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *FakeCompanyRepo) SetActive(_ context.Context, id string, active bool) (*directory.Company, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	c, ok := r.records[id]
	if !ok {
		return nil, directory.ErrCompanyNotFound
	}
	c.Active = active
	c.UpdatedAt = time.Now()
	copied := *c
	return &copied, nil
}
