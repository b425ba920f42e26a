package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	cartrepo "storefront-api/internal/repository/cart"
	orderrepo "storefront-api/internal/repository/order"
	productrepo "storefront-api/internal/repository/product"
	userrepo "storefront-api/internal/repository/user"
)

type fixture struct {
	svc      *Service
	carts    cartrepo.Repository
	products productrepo.Repository
	orders   orderrepo.Repository
	userID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := userrepo.NewMemory()
	u, err := users.Create(context.Background(), domain.User{Email: "buyer@example.com"})
	require.NoError(t, err)
	f := &fixture{
		carts:    cartrepo.NewMemory(),
		products: productrepo.NewMemory(),
		orders:   orderrepo.NewMemory(),
		userID:   u.ID,
	}
	f.svc = New(f.carts, f.products, f.orders, users)
	return f
}

func (f *fixture) product(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), domain.Product{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) cart(t *testing.T, items ...domain.CartItem) *domain.Cart {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.Create(ctx, f.userID)
	require.NoError(t, err)
	c.Items = items
	c, err = f.carts.Save(ctx, *c)
	require.NoError(t, err)
	return c
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestCreateOrder_DecrementsStockAndEmptiesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 4.5, 10)
	plate := f.product(t, "Plate", 2, 3)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 2}, domain.CartItem{ProductID: plate.ID, Quantity: 3})

	v, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, v.Order.Status)
	assert.Equal(t, f.userID, v.Order.UserID)
	assert.InDelta(t, 15.0, v.Order.TotalAmount, 1e-9)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, 8, v.Lines[0].Product.Stock)

	assert.Equal(t, 8, f.stock(t, mug.ID))
	assert.Equal(t, 0, f.stock(t, plate.ID))

	stored, err := f.carts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items, "cart is emptied, not deleted")
}

func TestCreateOrder_PriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 4, 10)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 1})

	v, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	require.NoError(t, err)

	newPrice := 99.0
	_, err = f.products.Update(ctx, mug.ID, domain.ProductPatch{Price: &newPrice})
	require.NoError(t, err)

	orders, err := f.svc.ListUserOrders(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, v.Order.ID, orders[0].Order.ID)
	assert.Equal(t, 4.0, orders[0].Lines[0].Price)
	assert.Equal(t, 99.0, orders[0].Lines[0].Product.Price)
}

func TestCreateOrder_InsufficientStockMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 1, 10)
	plate := f.product(t, "Plate", 1, 1)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 2}, domain.CartItem{ProductID: plate.ID, Quantity: 2})

	_, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "got %v", err)
	assert.EqualError(t, err, "not enough stock for Plate")

	assert.Equal(t, 10, f.stock(t, mug.ID))
	assert.Equal(t, 1, f.stock(t, plate.ID))
	orders, _ := f.orders.ListByUser(ctx, f.userID)
	assert.Empty(t, orders)
}

func TestCreateOrder_EmptyOrMissingCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, CreateInput{CartID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrInvalid))

	_, err = f.svc.CreateOrder(ctx, CreateInput{CartID: domain.NewID()})
	assert.EqualError(t, err, "Cart is empty or not found")

	c := f.cart(t)
	_, err = f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	assert.EqualError(t, err, "Cart is empty or not found")
}

func TestCreateOrder_SkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 3, 5)
	gone := f.product(t, "Gone", 1, 5)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 1}, domain.CartItem{ProductID: gone.ID, Quantity: 1})
	require.NoError(t, f.products.Delete(ctx, gone.ID))

	v, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	require.NoError(t, err)
	require.Len(t, v.Order.Items, 1)
	assert.Equal(t, 3.0, v.Order.TotalAmount)

	only := f.refill(t, gone.ID)
	_, err = f.svc.CreateOrder(ctx, CreateInput{CartID: only.ID})
	assert.EqualError(t, err, "Cart is empty or not found")
}

// refill reuses the user's existing cart, refilled with the given products.
func (f *fixture) refill(t *testing.T, productIDs ...string) *domain.Cart {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.GetByUser(ctx, f.userID)
	require.NoError(t, err)
	c.Items = nil
	for _, id := range productIDs {
		c.Items = append(c.Items, domain.CartItem{ProductID: id, Quantity: 1})
	}
	c, err = f.carts.Save(ctx, *c)
	require.NoError(t, err)
	return c
}

// racingProducts lets the guarded decrement of one product fail as if a
// concurrent order had taken the stock after the pre-check.
type racingProducts struct {
	productrepo.Repository
	loseOn string
}

func (r racingProducts) DecrementStock(ctx context.Context, id string, qty int) error {
	if id == r.loseOn {
		return domain.ErrInsufficientStock
	}
	return r.Repository.DecrementStock(ctx, id, qty)
}

func TestCreateOrder_RestocksWhenDecrementLosesRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 1, 5)
	plate := f.product(t, "Plate", 1, 5)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 2}, domain.CartItem{ProductID: plate.ID, Quantity: 2})

	f.svc.products = racingProducts{Repository: f.products, loseOn: plate.ID}
	_, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "got %v", err)

	assert.Equal(t, 5, f.stock(t, mug.ID), "mug decrement must be compensated")
	stored, err := f.carts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

type failingOrders struct {
	orderrepo.Repository
}

func (failingOrders) Create(context.Context, domain.Order) (*domain.Order, error) {
	return nil, errors.New("write failed")
}

func TestCreateOrder_RestocksWhenPersistFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.product(t, "Mug", 1, 5)
	c := f.cart(t, domain.CartItem{ProductID: mug.ID, Quantity: 3})

	f.svc.orders = failingOrders{Repository: f.orders}
	_, err := f.svc.CreateOrder(ctx, CreateInput{CartID: c.ID})
	assert.EqualError(t, err, "write failed")
	assert.Equal(t, 5, f.stock(t, mug.ID))
}

func TestListUserOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListUserOrders(ctx, "bad")
	assert.True(t, errors.Is(err, domain.ErrInvalid))
	_, err = f.svc.ListUserOrders(ctx, domain.NewID())
	assert.EqualError(t, err, "User not found")

	orders, err := f.svc.ListUserOrders(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
