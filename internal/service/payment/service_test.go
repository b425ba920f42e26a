package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	orderrepo "storefront-api/internal/repository/order"
	paymentrepo "storefront-api/internal/repository/payment"
)

func TestProcessPayment_MarksOrderPaid(t *testing.T) {
	ctx := context.Background()
	orders := orderrepo.NewMemory()
	svc := New(orders, paymentrepo.NewMemory())
	o, err := orders.Create(ctx, domain.Order{UserID: domain.NewID(), TotalAmount: 42.5, Status: domain.OrderStatusPending})
	require.NoError(t, err)

	p, err := svc.ProcessPayment(ctx, CreateInput{OrderID: o.ID, PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, 42.5, p.Amount)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
	assert.Equal(t, o.ID, p.OrderID)

	stored, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)

	again, err := svc.ProcessPayment(ctx, CreateInput{OrderID: o.ID, PaymentMethod: "card"})
	require.NoError(t, err, "paying twice is not guarded")
	assert.NotEqual(t, p.ID, again.ID)
}

func TestProcessPayment_Errors(t *testing.T) {
	svc := New(orderrepo.NewMemory(), paymentrepo.NewMemory())
	ctx := context.Background()

	_, err := svc.ProcessPayment(ctx, CreateInput{OrderID: "x", PaymentMethod: "card"})
	assert.True(t, errors.Is(err, domain.ErrInvalid))

	_, err = svc.ProcessPayment(ctx, CreateInput{OrderID: domain.NewID(), PaymentMethod: " "})
	assert.True(t, errors.Is(err, domain.ErrInvalid))

	_, err = svc.ProcessPayment(ctx, CreateInput{OrderID: domain.NewID(), PaymentMethod: "card"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.EqualError(t, err, "Order not found")
}
