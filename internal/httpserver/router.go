package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	ordersvc "storefront-api/internal/service/order"
	paymentsvc "storefront-api/internal/service/payment"
	productsvc "storefront-api/internal/service/product"
)

type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*authsvc.Profile, error)
	Login(ctx context.Context, in authsvc.LoginInput) (*authsvc.Profile, error)
}

type ProductService interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	AddToCart(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartView, error)
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
	RemoveFromCart(ctx context.Context, userID, productID string) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, in ordersvc.CreateInput) (*domain.OrderView, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.OrderView, error)
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, in paymentsvc.CreateInput) (*domain.Payment, error)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	AuthSvc    AuthService
	ProductSvc ProductService
	CartSvc    CartService
	OrderSvc   OrderService
	PaymentSvc PaymentService
}

func (d Deps) validate() error {
	switch {
	case d.AuthSvc == nil:
		return errors.New("auth service is required")
	case d.ProductSvc == nil:
		return errors.New("product service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.OrderSvc == nil:
		return errors.New("order service is required")
	case d.PaymentSvc == nil:
		return errors.New("payment service is required")
	}
	return nil
}

type Options struct {
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

// routes is the complete API surface.
func routes(store Pinger, deps Deps) []route {
	return []route{
		{http.MethodGet, "/", rootHandler},
		{http.MethodGet, "/healthz", healthHandler},
		{http.MethodGet, "/readyz", readyHandler(store)},

		{http.MethodPost, "/register", registerHandler(deps.AuthSvc)},
		{http.MethodPost, "/login", loginHandler(deps.AuthSvc)},

		{http.MethodPost, "/products", createProductHandler(deps.ProductSvc)},
		{http.MethodGet, "/products", listProductsHandler(deps.ProductSvc)},
		{http.MethodGet, "/products/:id", getProductHandler(deps.ProductSvc)},
		{http.MethodPut, "/products/:id", updateProductHandler(deps.ProductSvc)},
		{http.MethodDelete, "/products/:id", deleteProductHandler(deps.ProductSvc)},

		{http.MethodPost, "/cart/:user_id", addToCartHandler(deps.CartSvc)},
		{http.MethodGet, "/cart/:user_id", getCartHandler(deps.CartSvc)},
		{http.MethodDelete, "/cart/:user_id/:product_id", removeFromCartHandler(deps.CartSvc)},

		{http.MethodPost, "/orders", createOrderHandler(deps.OrderSvc)},
		{http.MethodGet, "/orders/:user_id", listOrdersHandler(deps.OrderSvc)},

		{http.MethodPost, "/payment", processPaymentHandler(deps.PaymentSvc)},
	}
}

// buildRouter wires middleware and the route table on a fresh engine.
func buildRouter(logger zerolog.Logger, store Pinger, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), cors.New(corsConfig(opts.CORSAllowedOrigins)))

	if opts.MetricsEnabled {
		m := newMetrics()
		router.Use(m.middleware())
		router.GET("/metrics", m.handler())
	}

	for _, r := range routes(store, deps) {
		router.Handle(r.method, r.path, r.handler)
	}
	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
