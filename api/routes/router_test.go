package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "stocktally/internal/auth"
	"stocktally/internal/categories"
	"stocktally/internal/dashboard"
	"stocktally/internal/products"
	"stocktally/internal/stock"
	"stocktally/internal/users"
	pkgAuth "stocktally/pkg/auth"
	"stocktally/pkg/config"
	"stocktally/pkg/logger"
	"stocktally/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.SessionResponse, error) {
	return &authsvc.SessionResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.SessionResponse, error) {
	return &authsvc.SessionResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

func (stubAuthService) Me(ctx context.Context, userID int64) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(ctx context.Context, input categories.ListCategoriesInput) ([]categories.CategoryDTO, types.PageMeta, error) {
	return []categories.CategoryDTO{}, types.PageMeta{CurrentPage: 1, LastPage: 1}, nil
}

func (stubCategoryService) ListActive(ctx context.Context) ([]categories.ActiveCategoryDTO, error) {
	return []categories.ActiveCategoryDTO{}, nil
}

func (stubCategoryService) Create(ctx context.Context, input categories.CreateCategoryInput) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoryService) Get(ctx context.Context, id int64) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoryService) Update(ctx context.Context, id int64, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoryService) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, input products.ListProductsInput) ([]products.ProductDTO, types.PageMeta, error) {
	return []products.ProductDTO{}, types.PageMeta{CurrentPage: 1, LastPage: 1}, nil
}

func (stubProductService) Create(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Get(ctx context.Context, id int64) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Update(ctx context.Context, id int64, input products.UpdateProductInput) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

type stubStockService struct{}

func (stubStockService) Adjust(ctx context.Context, input stock.AdjustInput) (*stock.AdjustmentDTO, error) {
	panic("unimplemented")
}

func (stubStockService) ListMovements(ctx context.Context, input stock.ListMovementsInput) ([]stock.MovementDTO, types.PageMeta, error) {
	return []stock.MovementDTO{}, types.PageMeta{CurrentPage: 1, LastPage: 1}, nil
}

func (stubStockService) Statistics(ctx context.Context, input stock.StatisticsInput) (*stock.StatisticsDTO, error) {
	return &stock.StatisticsDTO{}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Stats(ctx context.Context) (*dashboard.StatsDTO, error) {
	return &dashboard.StatsDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		Redis:            stubPinger{},
		SessionManager:   stubSessionManager{},
		AuthService:      stubAuthService{},
		CategoryService:  stubCategoryService{},
		ProductService:   stubProductService{},
		StockService:     stubStockService{},
		DashboardService: stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: 42,
		Email:  "operator@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReadyChecksStores(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/categories",
		"/api/v1/stock/movements",
		"/api/v1/stats",
		"/api/v1/auth/me",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for %s without token, got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesAcceptValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)

	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/categories",
		"/api/v1/categories/active",
		"/api/v1/stock/movements",
		"/api/v1/stock/statistics",
		"/api/v1/stats",
		"/api/v1/auth/me",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Errorf("expected 200 for %s with token, got %d", path, resp.Code)
		}
	}
}

func TestAuthRegisterIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	// empty body fails validation, but the route must not demand a token
	if resp.Code == http.StatusUnauthorized {
		t.Fatalf("register must be public, got %d", resp.Code)
	}
}
