package order

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type cartRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, c domain.Cart) (*domain.Cart, error)
}

type productRepo interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Service struct {
	carts    cartRepo
	products productRepo
	orders   orderRepo
	users    userRepo
}

func New(carts cartRepo, products productRepo, orders orderRepo, users userRepo) *Service {
	return &Service{carts: carts, products: products, orders: orders, users: users}
}

type CreateInput struct {
	CartID string `json:"cart_id" binding:"required"`
}

type reservation struct {
	productID string
	quantity  int
}

// CreateOrder turns a cart into a pending order. Stock is reserved line by
// line with a guarded decrement; if any line cannot be reserved, or the order
// cannot be stored, every reservation made so far is returned to stock. A
// failed order therefore leaves stock exactly as it found it, rather than
// keeping the decrements of the lines processed before the failure.
func (s *Service) CreateOrder(ctx context.Context, in CreateInput) (*domain.OrderView, error) {
	logger := zerolog.Ctx(ctx)
	if !domain.ValidID(in.CartID) {
		return nil, domain.Invalid("Invalid cart ID format")
	}

	cart, err := s.carts.GetByID(ctx, in.CartID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, domain.Invalid("Cart is empty or not found")
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	live, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var items []domain.OrderItem
	for _, item := range cart.Items {
		p, ok := live[item.ProductID]
		if !ok {
			logger.Warn().Str("cart_id", cart.ID).Str("product_id", item.ProductID).Msg("skipping cart line for deleted product")
			continue
		}
		if p.Stock < item.Quantity {
			return nil, domain.InsufficientStock("not enough stock for %s", p.Name)
		}
		items = append(items, domain.OrderItem{ProductID: p.ID, Quantity: item.Quantity, Price: p.Price})
	}
	if len(items) == 0 {
		return nil, domain.Invalid("Cart is empty or not found")
	}

	reserved := make([]reservation, 0, len(items))
	var total float64
	for _, item := range items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.release(ctx, reserved)
			if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrNotFound) {
				return nil, domain.InsufficientStock("not enough stock for %s", live[item.ProductID].Name)
			}
			return nil, err
		}
		reserved = append(reserved, reservation{productID: item.ProductID, quantity: item.Quantity})
		p := live[item.ProductID]
		p.Stock -= item.Quantity
		live[item.ProductID] = p
		total += item.Price * float64(item.Quantity)
	}

	order, err := s.orders.Create(ctx, domain.Order{
		UserID:      cart.UserID,
		Items:       items,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
	})
	if err != nil {
		s.release(ctx, reserved)
		return nil, err
	}

	cart.Items = []domain.CartItem{}
	if _, err := s.carts.Save(ctx, *cart); err != nil {
		logger.Error().Err(err).Str("cart_id", cart.ID).Str("order_id", order.ID).Msg("order stored but cart not emptied")
	}

	logger.Info().Str("order_id", order.ID).Str("user_id", order.UserID).Float64("total", order.TotalAmount).Msg("order created")
	return resolve(*order, live), nil
}

// release returns reserved stock. Failures are logged; there is nothing
// further to unwind.
func (s *Service) release(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.products.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("product_id", r.productID).Int("quantity", r.quantity).Msg("restock failed")
		}
	}
}

// ListUserOrders returns the user's orders oldest first. Lines whose product
// has since been deleted are left out of the view.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	if !domain.ValidID(userID) {
		return nil, domain.Invalid("Invalid user ID format")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, o := range orders {
		for _, item := range o.Items {
			ids = append(ids, item.ProductID)
		}
	}
	live, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		result = append(result, *resolve(o, live))
	}
	return result, nil
}

func resolve(o domain.Order, live map[string]domain.Product) *domain.OrderView {
	v := &domain.OrderView{Order: o, Lines: make([]domain.ResolvedLine, 0, len(o.Items))}
	for _, item := range o.Items {
		p, ok := live[item.ProductID]
		if !ok {
			continue
		}
		v.Lines = append(v.Lines, domain.ResolvedLine{Product: &p, Quantity: item.Quantity, Price: item.Price})
	}
	return v
}
