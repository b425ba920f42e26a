package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	ordersvc "storefront-api/internal/service/order"
	paymentsvc "storefront-api/internal/service/payment"
	productsvc "storefront-api/internal/service/product"
)

type stubAuthService struct {
	profile *authsvc.Profile
	err     error
	lastReg authsvc.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, in authsvc.RegisterInput) (*authsvc.Profile, error) {
	s.lastReg = in
	return s.profile, s.err
}

func (s *stubAuthService) Login(_ context.Context, _ authsvc.LoginInput) (*authsvc.Profile, error) {
	return s.profile, s.err
}

type stubProductService struct {
	product  *domain.Product
	products []domain.Product
	err      error
	lastID   string
}

func (s *stubProductService) Create(_ context.Context, _ productsvc.CreateInput) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductService) Update(_ context.Context, id string, _ productsvc.UpdateInput) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductService) Delete(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

type stubCartService struct {
	view *domain.CartView
	err  error
}

func (s *stubCartService) AddToCart(_ context.Context, _ string, _ cartsvc.AddInput) (*domain.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) GetCart(_ context.Context, _ string) (*domain.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) RemoveFromCart(_ context.Context, _, _ string) error {
	return s.err
}

type stubOrderService struct {
	view  *domain.OrderView
	views []domain.OrderView
	err   error
}

func (s *stubOrderService) CreateOrder(_ context.Context, _ ordersvc.CreateInput) (*domain.OrderView, error) {
	return s.view, s.err
}

func (s *stubOrderService) ListUserOrders(_ context.Context, _ string) ([]domain.OrderView, error) {
	return s.views, s.err
}

type stubPaymentService struct {
	payment *domain.Payment
	err     error
}

func (s *stubPaymentService) ProcessPayment(_ context.Context, _ paymentsvc.CreateInput) (*domain.Payment, error) {
	return s.payment, s.err
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func defaultDeps() Deps {
	return Deps{
		AuthSvc:    &stubAuthService{},
		ProductSvc: &stubProductService{},
		CartSvc:    &stubCartService{},
		OrderSvc:   &stubOrderService{},
		PaymentSvc: &stubPaymentService{},
	}
}

func newTestRouter(t *testing.T, deps Deps, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zerolog.Nop(), stubPinger{}, deps, opts)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouter_RequiresServices(t *testing.T) {
	deps := defaultDeps()
	deps.CartSvc = nil
	if _, err := buildRouter(zerolog.Nop(), nil, deps, Options{}); err == nil {
		t.Fatalf("expected error for missing cart service")
	}
}

func TestRouteTable_AllRegistered(t *testing.T) {
	router := newTestRouter(t, defaultDeps(), Options{})
	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, r := range routes(nil, defaultDeps()) {
		if !registered[r.method+" "+r.path] {
			t.Fatalf("route %s %s not registered", r.method, r.path)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, defaultDeps(), Options{})

	rec := do(router, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"health":"Check"`) {
		t.Fatalf("unexpected root response %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /healthz, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestReadyz_StoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zerolog.Nop(), stubPinger{err: errors.New("down")}, defaultDeps(), Options{})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	if rec := do(router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, defaultDeps(), Options{MetricsEnabled: true})
	do(router, http.MethodGet, "/healthz", "")

	rec := do(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{code="200",method="GET",route="/healthz"} 1`) {
		t.Fatalf("request counter missing from metrics output")
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, defaultDeps(), Options{CORSAllowedOrigins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		path   string
		method string
		body   string
		status int
	}{
		{"not found", domain.NotFound("Product not found"), "/products/abc", http.MethodGet, "", http.StatusNotFound},
		{"invalid", domain.Invalid("Invalid product ID format"), "/products/abc", http.MethodGet, "", http.StatusBadRequest},
		{"product fallback", errors.New("boom"), "/products/abc", http.MethodGet, "", http.StatusBadRequest},
		{"cart fallback", errors.New("boom"), "/cart/abc", http.MethodGet, "", http.StatusInternalServerError},
		{"stock", domain.InsufficientStock("not enough stock for Mug"), "/orders", http.MethodPost, `{"cart_id":"c"}`, http.StatusBadRequest},
		{"conflict", domain.Conflict("Email already registered"), "/register", http.MethodPost, `{"email":"a@b.c","first_name":"a","last_name":"b","password":"p"}`, http.StatusBadRequest},
		{"password", domain.IncorrectPassword("Incorrect password"), "/login", http.MethodPost, `{"email":"a@b.c","password":"p"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := Deps{
				AuthSvc:    &stubAuthService{err: tc.err},
				ProductSvc: &stubProductService{err: tc.err},
				CartSvc:    &stubCartService{err: tc.err},
				OrderSvc:   &stubOrderService{err: tc.err},
				PaymentSvc: &stubPaymentService{err: tc.err},
			}
			rec := do(newTestRouter(t, deps, Options{}), tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d body=%s", tc.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["detail"] == "" {
				t.Fatalf("expected detail body, got %s", rec.Body.String())
			}
		})
	}
}

func TestRegisterHandler_MissingField(t *testing.T) {
	auth := &stubAuthService{}
	deps := defaultDeps()
	deps.AuthSvc = auth
	rec := do(newTestRouter(t, deps, Options{}), http.MethodPost, "/register", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterHandler_ProfileShape(t *testing.T) {
	auth := &stubAuthService{profile: &authsvc.Profile{
		User: domain.User{ID: "u1", Email: "a@b.c", FirstName: "A", LastName: "B", PasswordHash: "secret-hash"},
		Role: &domain.Role{ID: "r1", Roles: []string{"user"}},
	}}
	deps := defaultDeps()
	deps.AuthSvc = auth
	rec := do(newTestRouter(t, deps, Options{}), http.MethodPost, "/register", `{"email":"a@b.c","first_name":"A","last_name":"B","password":"pw","role_id":"r1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"role":{"id":"r1","roles":["user"]}`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if auth.lastReg.RoleID != "r1" {
		t.Fatalf("role_id not forwarded: %+v", auth.lastReg)
	}
}

func TestGetCartHandler_EmptyCartHasNullID(t *testing.T) {
	deps := defaultDeps()
	deps.CartSvc = &stubCartService{view: &domain.CartView{Cart: domain.Cart{UserID: "u1"}}}
	rec := do(newTestRouter(t, deps, Options{}), http.MethodGet, "/cart/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"id":null,"user":"u1","items":[]}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestCartHandler_SkipsAbsentLines(t *testing.T) {
	deps := defaultDeps()
	deps.CartSvc = &stubCartService{view: &domain.CartView{
		Cart: domain.Cart{ID: "c1", UserID: "u1"},
		Lines: []domain.ResolvedLine{
			{Product: &domain.Product{ID: "p1", Name: "Mug"}, Quantity: 2},
			{Product: nil, Quantity: 1},
		},
	}}
	rec := do(newTestRouter(t, deps, Options{}), http.MethodPost, "/cart/u1", `{"product_id":"p1","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == nil || *resp.ID != "c1" || len(resp.Items) != 1 || resp.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", resp)
	}
}

func TestListOrdersHandler_Subtotal(t *testing.T) {
	deps := defaultDeps()
	deps.OrderSvc = &stubOrderService{views: []domain.OrderView{{
		Order: domain.Order{ID: "o1", UserID: "u1", TotalAmount: 9, Status: domain.OrderStatusPending},
		Lines: []domain.ResolvedLine{{Product: &domain.Product{ID: "p1"}, Quantity: 3, Price: 3}},
	}}}
	rec := do(newTestRouter(t, deps, Options{}), http.MethodGet, "/orders/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Items[0].Subtotal != 9 {
		t.Fatalf("unexpected orders %+v", resp)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	products := &stubProductService{}
	deps := defaultDeps()
	deps.ProductSvc = products
	rec := do(newTestRouter(t, deps, Options{}), http.MethodDelete, "/products/p1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Product deleted successfully") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if products.lastID != "p1" {
		t.Fatalf("expected id p1, got %q", products.lastID)
	}
}
