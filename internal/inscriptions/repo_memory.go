package inscriptions

import (
	"context"
	"sort"
	"sync"

	"cozetik-backend/internal/shared/leadstatus"
)

// MemoryRepo is an in-memory Repo for development and tests. It keeps the
// formation reference given at Create since it has no formations table.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Inscription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Inscription)}
}

func (r *MemoryRepo) Create(ctx context.Context, in Inscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[in.ID] = in
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Inscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.items[id]
	if !ok {
		return Inscription{}, ErrNotFound
	}
	return in, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Inscription, error) {
	r.mu.RLock()
	out := make([]Inscription, 0, len(r.items))
	for _, in := range r.items {
		out = append(out, in)
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
	in, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if in.Status != from {
		return ErrInvalidTransition
	}
	in.Status = to
	r.items[id] = in
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

// Len reports how many inscriptions are stored.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

var _ Repo = (*MemoryRepo)(nil)
