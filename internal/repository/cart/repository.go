package cart

import (
	"context"

	"storefront-api/internal/domain"
)

// Repository persists carts. Each user owns at most one cart, enforced by a
// unique index in both database backends.
type Repository interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// Save replaces the items of an existing cart and bumps updated_at.
	Save(ctx context.Context, c domain.Cart) (*domain.Cart, error)
}
