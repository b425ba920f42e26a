package order

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}
