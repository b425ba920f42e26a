package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

type paymentRepo interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
}

type Service struct {
	orders   orderRepo
	payments paymentRepo
}

func New(orders orderRepo, payments paymentRepo) *Service {
	return &Service{orders: orders, payments: payments}
}

type CreateInput struct {
	OrderID       string `json:"order_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// ProcessPayment records a completed payment for the full order amount and
// marks the order paid. Paying an already paid order records another payment.
func (s *Service) ProcessPayment(ctx context.Context, in CreateInput) (*domain.Payment, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	switch {
	case !domain.ValidID(in.OrderID):
		return nil, domain.Invalid("Invalid order ID format")
	case method == "":
		return nil, domain.Invalid("payment_method is required")
	}

	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Order not found")
		}
		return nil, err
	}

	payment, err := s.payments.Create(ctx, domain.Payment{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		PaymentMethod: method,
		Status:        domain.PaymentStatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("payment_id", payment.ID).Str("order_id", order.ID).Float64("amount", payment.Amount).Msg("payment recorded")
	return payment, nil
}
