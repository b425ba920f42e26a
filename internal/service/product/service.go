package product

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type productRepo interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo productRepo
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
}

// UpdateInput applies only the fields that are set.
type UpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Stock       *int     `json:"stock"`
}

func validate(patch domain.ProductPatch) error {
	switch {
	case patch.Name != nil && strings.TrimSpace(*patch.Name) == "":
		return domain.Invalid("name is required")
	case patch.Price != nil && *patch.Price < 0:
		return domain.Invalid("price must not be negative")
	case patch.Stock != nil && *patch.Stock < 0:
		return domain.Invalid("stock must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	}
	if err := validate(p.Patch()); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if !domain.ValidID(id) {
		return nil, domain.Invalid("Invalid product ID format")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Product not found")
		}
		return nil, err
	}
	return p, nil
}

// Update writes only the fields present in the request. Stock is left to
// the order flow's guarded decrements unless the caller sets it.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if !domain.ValidID(id) {
		return nil, domain.Invalid("Invalid product ID format")
	}
	patch := domain.ProductPatch{
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if err := validate(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Product not found")
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.Invalid("Invalid product ID format")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Product not found")
		}
		return err
	}
	zerolog.Ctx(ctx).Info().Str("product_id", id).Msg("product deleted")
	return nil
}
