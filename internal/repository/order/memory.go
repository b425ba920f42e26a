package order

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.Order
	order []string
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]domain.Order)}
}

func (r *memoryRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = domain.NewID()
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	o.Items = append([]domain.OrderItem{}, o.Items...)
	r.byID[o.ID] = o
	r.order = append(r.order, o.ID)
	return &o, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Order{}
	for _, id := range r.order {
		if o := r.byID[id]; o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id, status string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.byID[id] = o
	return &o, nil
}
