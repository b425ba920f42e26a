package cart

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type cartRepo interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, c domain.Cart) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Service struct {
	carts    cartRepo
	products productRepo
	users    userRepo
}

func New(carts cartRepo, products productRepo, users userRepo) *Service {
	return &Service{carts: carts, products: products, users: users}
}

type AddInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart puts quantity units of a product into the user's cart, merging
// with an existing line for the same product. The cart is created on first use.
func (s *Service) AddToCart(ctx context.Context, userID string, in AddInput) (*domain.CartView, error) {
	logger := zerolog.Ctx(ctx)
	switch {
	case !domain.ValidID(userID):
		return nil, domain.Invalid("Invalid user ID format")
	case !domain.ValidID(in.ProductID):
		return nil, domain.Invalid("Invalid product ID format")
	case in.Quantity <= 0:
		return nil, domain.Invalid("Quantity must be greater than 0")
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Product not found")
		}
		return nil, err
	}
	if product.Stock < in.Quantity {
		return nil, domain.InsufficientStock("Not enough stock available. Only %d items left", product.Stock)
	}

	cart, err := s.userCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	live, err := s.liveProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	live[product.ID] = *product
	items, dropped := keepPresent(cart.Items, live)
	if dropped > 0 {
		logger.Warn().Str("cart_id", cart.ID).Int("dropped", dropped).Msg("dropping cart lines for deleted products")
	}

	if idx := domain.ItemIndex(items, product.ID); idx >= 0 {
		inCart := items[idx].Quantity
		if product.Stock < inCart+in.Quantity {
			return nil, domain.InsufficientStock("Not enough stock. You have %d in cart, only %d available", inCart, product.Stock)
		}
		items[idx].Quantity = inCart + in.Quantity
	} else {
		items = append(items, domain.CartItem{ProductID: product.ID, Quantity: in.Quantity})
	}

	cart.Items = items
	saved, err := s.carts.Save(ctx, *cart)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("cart_id", saved.ID).Str("product_id", product.ID).Int("quantity", in.Quantity).Msg("cart updated")
	return view(*saved, live), nil
}

// GetCart returns the user's cart with lines resolved against live products.
// Lines whose product was deleted are removed from the stored cart.
func (s *Service) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	if !domain.ValidID(userID) {
		return nil, domain.Invalid("Invalid user ID format")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CartView{Cart: domain.Cart{UserID: userID, Items: []domain.CartItem{}}, Lines: []domain.ResolvedLine{}}, nil
		}
		return nil, err
	}

	live, err := s.liveProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	items, dropped := keepPresent(cart.Items, live)
	if dropped > 0 {
		cart.Items = items
		if cart, err = s.carts.Save(ctx, *cart); err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Warn().Str("cart_id", cart.ID).Int("dropped", dropped).Msg("removed cart lines for deleted products")
	}
	return view(*cart, live), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string) error {
	switch {
	case !domain.ValidID(userID):
		return domain.Invalid("Invalid user ID format")
	case !domain.ValidID(productID):
		return domain.Invalid("Invalid product ID format")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Cart not found")
		}
		return err
	}

	live, err := s.liveProducts(ctx, cart.Items)
	if err != nil {
		return err
	}
	items, _ := keepPresent(cart.Items, live)
	idx := domain.ItemIndex(items, productID)
	if idx < 0 {
		return domain.NotFound("Product not found in cart")
	}
	cart.Items = append(items[:idx], items[idx+1:]...)
	if _, err := s.carts.Save(ctx, *cart); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("cart_id", cart.ID).Str("product_id", productID).Msg("removed from cart")
	return nil
}

func (s *Service) ensureUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("User not found")
		}
		return err
	}
	return nil
}

// userCart loads the user's cart, creating it when absent. A concurrent
// create for the same user is resolved by re-reading the winner.
func (s *Service) userCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	cart, err = s.carts.Create(ctx, userID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.carts.GetByUser(ctx, userID)
	}
	if err == nil {
		zerolog.Ctx(ctx).Debug().Str("cart_id", cart.ID).Str("user_id", userID).Msg("cart created")
	}
	return cart, err
}

func (s *Service) liveProducts(ctx context.Context, items []domain.CartItem) (map[string]domain.Product, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return s.products.GetByIDs(ctx, ids)
}

// keepPresent returns the items whose product still exists and how many were dropped.
func keepPresent(items []domain.CartItem, live map[string]domain.Product) ([]domain.CartItem, int) {
	kept := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if _, ok := live[item.ProductID]; ok {
			kept = append(kept, item)
		}
	}
	return kept, len(items) - len(kept)
}

func view(c domain.Cart, live map[string]domain.Product) *domain.CartView {
	v := &domain.CartView{Cart: c, Lines: make([]domain.ResolvedLine, 0, len(c.Items))}
	for _, item := range c.Items {
		line := domain.ResolvedLine{Quantity: item.Quantity}
		if p, ok := live[item.ProductID]; ok {
			line.Product = &p
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}
