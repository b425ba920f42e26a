package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type ProductWriter interface {
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error)
}

type RoleWriter interface {
	Create(ctx context.Context, r domain.Role) (*domain.Role, error)
}

// DemoProducts is the catalog installed by Apply.
var DemoProducts = []domain.Product{
	{
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee for demo purposes",
		Price:       19.99,
		ImageURL:    "https://images.example.com/demo-shirt.jpg",
		Stock:       25,
	},
	{
		Name:        "Demo Mug",
		Description: "Ceramic mug with demo logo",
		Price:       12.99,
		ImageURL:    "https://images.example.com/demo-mug.jpg",
		Stock:       40,
	},
	{
		Name:        "Demo Tote Bag",
		Description: "Canvas tote for groceries and books",
		Price:       9.5,
		ImageURL:    "https://images.example.com/demo-tote.jpg",
		Stock:       15,
	},
}

// Apply installs the demo catalog. Products are matched by name, so running
// it again refreshes them instead of duplicating.
func Apply(ctx context.Context, products ProductWriter, logger zerolog.Logger) error {
	for _, p := range DemoProducts {
		saved, created, err := products.UpsertByName(ctx, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		logger.Info().Str("product_id", saved.ID).Str("name", saved.Name).Bool("created", created).Msg("seeded product")
	}
	return nil
}

// AdminRole creates a role granting admin rights and returns it, so an
// operator can register an admin by passing its id as role_id.
func AdminRole(ctx context.Context, roles RoleWriter) (*domain.Role, error) {
	role, err := roles.Create(ctx, domain.Role{Roles: []string{"user", "admin"}})
	if err != nil {
		return nil, fmt.Errorf("create admin role: %w", err)
	}
	return role, nil
}
