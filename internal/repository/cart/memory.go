package cart

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]domain.Cart
	byUser map[string]string
}

func NewMemory() Repository {
	return &memoryRepo{
		byID:   make(map[string]domain.Cart),
		byUser: make(map[string]string),
	}
}

func (r *memoryRepo) Create(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	now := time.Now().UTC()
	c := domain.Cart{ID: domain.NewID(), UserID: userID, Items: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now}
	r.byID[c.ID] = c
	r.byUser[userID] = c.ID
	return copyCart(c), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCart(c), nil
}

func (r *memoryRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCart(r.byID[id]), nil
}

func (r *memoryRepo) Save(_ context.Context, c domain.Cart) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	existing.Items = append([]domain.CartItem{}, c.Items...)
	existing.UpdatedAt = time.Now().UTC()
	r.byID[c.ID] = existing
	return copyCart(existing), nil
}

// copyCart detaches the items slice from the stored value.
func copyCart(c domain.Cart) *domain.Cart {
	c.Items = append([]domain.CartItem{}, c.Items...)
	return &c
}
