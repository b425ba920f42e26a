package role

import (
	"context"
	"sync"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Role
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]domain.Role)}
}

func (m *memoryRepo) Create(_ context.Context, r domain.Role) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = domain.NewID()
	}
	r.Roles = append([]string(nil), r.Roles...)
	m.byID[r.ID] = r
	return &r, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}
