package user

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemory() Repository {
	return &memoryRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return &u, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}
