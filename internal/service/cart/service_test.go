package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	cartrepo "storefront-api/internal/repository/cart"
	productrepo "storefront-api/internal/repository/product"
	userrepo "storefront-api/internal/repository/user"
)

type fixture struct {
	svc      *Service
	carts    cartrepo.Repository
	products productrepo.Repository
	user     *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := userrepo.NewMemory()
	u, err := users.Create(context.Background(), domain.User{Email: "shopper@example.com"})
	require.NoError(t, err)
	f := &fixture{
		carts:    cartrepo.NewMemory(),
		products: productrepo.NewMemory(),
		user:     u,
	}
	f.svc = New(f.carts, f.products, users)
	return f
}

func (f *fixture) product(t *testing.T, name string, stock int) *domain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), domain.Product{Name: name, Price: 5, Stock: stock})
	require.NoError(t, err)
	return p
}

func TestAddToCart_MergesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Mug", 5)

	_, err := f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	v, err := f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, v.Cart.Items, 1)
	assert.Equal(t, 5, v.Cart.Items[0].Quantity)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "Mug", v.Lines[0].Product.Name)
}

func TestAddToCart_CumulativeStockCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Mug", 5)

	_, err := f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: p.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: p.ID, Quantity: 2})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "got %v", err)
	assert.EqualError(t, err, "Not enough stock. You have 4 in cart, only 5 available")

	cart, err := f.carts.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddToCart_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Mug", 1)

	cases := []struct {
		name   string
		userID string
		in     AddInput
		kind   error
		msg    string
	}{
		{"bad user id", "123", AddInput{ProductID: p.ID, Quantity: 1}, domain.ErrInvalid, "Invalid user ID format"},
		{"bad product id", f.user.ID, AddInput{ProductID: "x", Quantity: 1}, domain.ErrInvalid, "Invalid product ID format"},
		{"zero quantity", f.user.ID, AddInput{ProductID: p.ID}, domain.ErrInvalid, "Quantity must be greater than 0"},
		{"unknown user", domain.NewID(), AddInput{ProductID: p.ID, Quantity: 1}, domain.ErrNotFound, "User not found"},
		{"unknown product", f.user.ID, AddInput{ProductID: domain.NewID(), Quantity: 1}, domain.ErrNotFound, "Product not found"},
		{"over stock", f.user.ID, AddInput{ProductID: p.ID, Quantity: 2}, domain.ErrInsufficientStock, "Not enough stock available. Only 1 items left"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddToCart(ctx, tc.userID, tc.in)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
			assert.EqualError(t, err, tc.msg)
		})
	}

	_, err := f.carts.GetByUser(ctx, f.user.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "failed adds must not create a cart")
}

func TestGetCart_EmptyWhenNoCart(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.GetCart(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Cart.ID)
	assert.Equal(t, f.user.ID, v.Cart.UserID)
	assert.Empty(t, v.Lines)
}

func TestGetCart_DropsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.product(t, "Keep", 3)
	gone := f.product(t, "Gone", 3)

	_, err := f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: keep.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: gone.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, gone.ID))

	v, err := f.svc.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, keep.ID, v.Lines[0].Product.ID)

	stored, err := f.carts.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1, "dangling line removal must be persisted")
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Mug", 3)
	other := f.product(t, "Plate", 3)

	err := f.svc.RemoveFromCart(ctx, f.user.ID, p.ID)
	assert.EqualError(t, err, "Cart not found")

	_, err = f.svc.AddToCart(ctx, f.user.ID, AddInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	before, err := f.carts.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)

	err = f.svc.RemoveFromCart(ctx, f.user.ID, other.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.EqualError(t, err, "Product not found in cart")
	after, err := f.carts.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "a miss must not write the cart")

	require.NoError(t, f.svc.RemoveFromCart(ctx, f.user.ID, p.ID))
	after, err = f.carts.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
}
