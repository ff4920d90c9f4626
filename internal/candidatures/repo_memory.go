package candidatures

import (
	"context"
	"sort"
	"sync"

	"cozetik-backend/internal/shared/leadstatus"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Candidature
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Candidature)}
}

func (r *MemoryRepo) Create(ctx context.Context, c Candidature) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[c.ID]; exists {
		return ErrDuplicate
	}
	r.items[c.ID] = c
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return Candidature{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Candidature, error) {
	f = normalizePage(f)
	r.mu.RLock()
	out := make([]Candidature, 0, len(r.items))
	for _, c := range r.items {
		if f.Status == "" || c.Status == f.Status {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= len(out) {
		return []Candidature{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
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

// Len returns the number of stored candidatures.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

var _ Repo = (*MemoryRepo)(nil)
