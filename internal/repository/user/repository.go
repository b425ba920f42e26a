package user

import (
	"context"

	"storefront-api/internal/domain"
)

// Repository persists users. Email lookups are exact; callers normalise
// emails before storing or querying.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
