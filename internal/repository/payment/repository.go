package payment

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
}
