package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lorenagil/storefront-backend/internal/auth"
	"github.com/lorenagil/storefront-backend/internal/cart"
	"github.com/lorenagil/storefront-backend/internal/orders"
	"github.com/lorenagil/storefront-backend/internal/products"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	pkgAuth "github.com/lorenagil/storefront-backend/pkg/auth"
	"github.com/lorenagil/storefront-backend/pkg/auth/session"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubChecker struct{}

func (stubChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthSvc struct{}

func (stubAuthSvc) Register(context.Context, profiles.RegisterInput) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{Email: "ada@example.com"}, nil
}

func (stubAuthSvc) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "token"}, nil
}

func (stubAuthSvc) Logout(context.Context, *pkgAuth.AccessTokenClaims) error {
	return nil
}

type stubProfileSvc struct{}

func (stubProfileSvc) Register(context.Context, profiles.RegisterInput) (*profiles.ProfileDTO, error) {
	return nil, nil
}

func (stubProfileSvc) Authenticate(context.Context, string, string) (*profiles.ProfileDTO, error) {
	return nil, nil
}

func (stubProfileSvc) Get(_ context.Context, email string) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{Email: email, Role: "Customer"}, nil
}

func (stubProfileSvc) Update(context.Context, string, profiles.UpdateProfileInput) (*profiles.ProfileDTO, error) {
	return nil, nil
}

func (stubProfileSvc) ListCustomerEmails(context.Context) ([]string, error) {
	return nil, nil
}

func (stubProfileSvc) EnsureAdmin(context.Context) error {
	return nil
}

type stubProductSvc struct{}

func (stubProductSvc) List(context.Context) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func (stubProductSvc) Get(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return nil, nil
}

func (stubProductSvc) Create(context.Context, products.CreateProductInput) (*products.ProductDTO, error) {
	return nil, nil
}

type stubCartSvc struct{}

func (stubCartSvc) Get(context.Context, string) (*cart.CartDTO, error) {
	return &cart.CartDTO{Items: []cart.LineItem{}}, nil
}

func (stubCartSvc) Add(context.Context, string, uuid.UUID, int) (*cart.CartDTO, error) {
	return nil, nil
}

func (stubCartSvc) UpdateQuantities(context.Context, string, map[uuid.UUID]int) (*cart.CartDTO, error) {
	return nil, nil
}

func (stubCartSvc) Remove(context.Context, string, uuid.UUID) (*cart.CartDTO, error) {
	return nil, nil
}

func (stubCartSvc) Items(context.Context, string) ([]cart.LineItem, error) {
	return nil, nil
}

func (stubCartSvc) Clear(context.Context, string) error {
	return nil
}

type stubOrdersSvc struct{}

func (stubOrdersSvc) Submit(context.Context, string, []cart.LineItem) (*orders.OrderDTO, error) {
	return nil, nil
}

func (stubOrdersSvc) MarkSent(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, nil
}

func (stubOrdersSvc) Get(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, nil
}

func (stubOrdersSvc) ListByCustomer(context.Context, string) ([]orders.OrderDTO, error) {
	return nil, nil
}

type stubActivityLog struct{}

func (stubActivityLog) Append(context.Context, string, enums.ActivityAction, time.Time, *int) {}

func (stubActivityLog) Read(context.Context, string) (string, error) {
	return "", nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		stubPinger{},
		stubPinger{},
		stubChecker{},
		stubAuthSvc{},
		stubProfileSvc{},
		stubProductSvc{},
		stubCartSvc{},
		stubOrdersSvc{},
		stubActivityLog{},
		nil,
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Storefront-Env"); got != "dev" {
		t.Fatalf("expected env header dev got %s", got)
	}
}

func TestRouterRequiresAuthForCart(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAdminRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t)

	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		Email: "ada@example.com",
		Name:  "Ada",
		Role:  enums.RoleCustomer,
		JTI:   session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/customers/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRouterAuthedProfileFetch(t *testing.T) {
	router := newTestRouter(t)

	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		Email: "ada@example.com",
		Name:  "Ada",
		Role:  enums.RoleCustomer,
		JTI:   session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
