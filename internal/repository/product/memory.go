package product

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.Product
	order []string
}

// NewMemory returns a process-local repository used by tests and the
// "memory" store driver.
func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]domain.Product)}
}

func (r *memoryRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	if _, ok := r.byID[p.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	stamp(&p)
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return &p, nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.byID[id]; ok {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) GetByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return &p, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepo) DecrementStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return nil
}

func (r *memoryRepo) IncrementStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return nil
}

func (r *memoryRepo) UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error) {
	r.mu.Lock()
	for _, id := range r.order {
		existing := r.byID[id]
		if existing.Name != p.Name {
			continue
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = time.Now().UTC()
		r.byID[id] = p
		r.mu.Unlock()
		return &p, false, nil
	}
	r.mu.Unlock()

	created, err := r.Create(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func stamp(p *domain.Product) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
