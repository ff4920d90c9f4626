package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]AdminUser
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]AdminUser)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user AdminUser) (AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return AdminUser{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for id, existing := range r.users {
		if existing.Email == user.Email {
			user.ID = id
			user.CreatedAt = existing.CreatedAt
			user.UpdatedAt = now
			r.users[id] = user
			return user, nil
		}
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return AdminUser{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return AdminUser{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return AdminUser{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return AdminUser{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context) ([]AdminUser, error) {
	r.mu.RLock()
	out := make([]AdminUser, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
