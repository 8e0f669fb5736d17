package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktally/api/controllers"
	"stocktally/api/middleware"
	authsvc "stocktally/internal/auth"
	"stocktally/internal/categories"
	"stocktally/internal/dashboard"
	"stocktally/internal/products"
	"stocktally/internal/stock"
	"stocktally/pkg/auth/session"
	"stocktally/pkg/config"
	"stocktally/pkg/db"
	"stocktally/pkg/logger"
	"stocktally/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            redis.Pinger
	SessionManager   sessionManager
	AuthService      authsvc.Service
	CategoryService  categories.Service
	ProductService   products.Service
	StockService     stock.Service
	DashboardService dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.CategoryService, logg))
			r.Get("/active", controllers.CategoryListActive(deps.CategoryService, logg))
			r.Post("/", controllers.CategoryCreate(deps.CategoryService, logg))
			r.Get("/{categoryId}", controllers.CategoryDetail(deps.CategoryService, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(deps.CategoryService, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(deps.CategoryService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.ProductService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.ProductService, logg))

			r.Post("/{productId}/stock-in", controllers.ProductStockIn(deps.StockService, logg))
			r.Post("/{productId}/stock-out", controllers.ProductStockOut(deps.StockService, logg))
			r.Get("/{productId}/stock-movements", controllers.ProductStockMovements(deps.StockService, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/movements", controllers.StockMovementList(deps.StockService, logg))
			r.Get("/statistics", controllers.StockStatistics(deps.StockService, logg))
		})

		r.Get("/stats", controllers.DashboardStats(deps.DashboardService, logg))
	})

	return r
}
