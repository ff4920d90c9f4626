package contacts

import (
	"context"
	"sort"
	"sync"

	"cozetik-backend/internal/shared/leadstatus"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]ContactRequest
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]ContactRequest)}
}

func (r *MemoryRepo) Create(ctx context.Context, c ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ContactRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return ContactRequest{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]ContactRequest, error) {
	r.mu.RLock()
	out := make([]ContactRequest, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ri, rj := statusRank(out[i].Status), statusRank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, from, to leadstatus.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != from {
		return ErrInvalidTransition
	}
	c.Status = to
	r.items[id] = c
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
