package product

import (
	"context"

	"storefront-api/internal/domain"
)

// Repository persists products. Stock changes go through DecrementStock and
// IncrementStock so concurrent checkouts can never drive stock below zero.
type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// GetByIDs returns the products that exist among ids, keyed by id.
	// Missing ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	// Update writes only the fields set in patch and returns the stored product.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty only when at least qty units remain.
	// It returns domain.ErrInsufficientStock when the guard fails and
	// domain.ErrNotFound when the product does not exist.
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
	// UpsertByName updates the product with the same name or inserts a new
	// one. The bool reports whether a new product was created.
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error)
}
