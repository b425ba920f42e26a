package role

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, r domain.Role) (*domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
