package payment

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Payment
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]domain.Payment)}
}

func (r *memoryRepo) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	p.CreatedAt = time.Now().UTC()
	r.byID[p.ID] = p
	return &p, nil
}
