package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmansunasara/sparehub-b2b-platform/api/controllers"
	"github.com/farmansunasara/sparehub-b2b-platform/api/middleware"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/analytics"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/catalog"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/orders"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/settings"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/users"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/auth/session"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/metrics"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/redis"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/storage/local"
)

type sessionManager interface {
	session.AccessSessionChecker
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	uploads *local.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	userService users.Service,
	catalogService catalog.Service,
	orderService orders.Service,
	settingsService settings.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}

	var uploader controllers.Uploader
	if uploads != nil {
		uploader = uploads
	}
	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginUsernameLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Uploaded product images are served straight off disk.
	if uploads != nil {
		fs := http.StripPrefix(uploads.BaseURL(), http.FileServer(http.Dir(uploads.Dir())))
		r.Handle(uploads.BaseURL()+"/*", fs)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).
			Post("/login", controllers.AuthLogin(userService, sessionManager, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/me", controllers.AuthMe(userService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(userService, logg))
			r.Post("/", controllers.UserCreate(userService, logg))
			r.Get("/{userId}", controllers.UserDetail(userService, logg))
			r.Patch("/{userId}", controllers.UserUpdate(userService, logg))
			r.Post("/{userId}/toggle-active", controllers.UserToggleActive(userService, logg))
			r.Delete("/{userId}", controllers.UserDelete(userService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(catalogService, logg))
			r.Post("/", controllers.CategoryCreate(catalogService, logg))
			r.Get("/{categoryId}/subcategories", controllers.SubcategoryList(catalogService, logg))
			r.Patch("/{categoryId}", controllers.CategoryUpdate(catalogService, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(catalogService, logg))
		})
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.BrandList(catalogService, logg))
			r.Post("/", controllers.BrandCreate(catalogService, logg))
			r.Patch("/{brandId}", controllers.BrandUpdate(catalogService, logg))
			r.Delete("/{brandId}", controllers.BrandDelete(catalogService, logg))
		})
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", controllers.CarList(catalogService, logg))
			r.Post("/", controllers.CarCreate(catalogService, logg))
			r.Delete("/{carId}", controllers.CarDelete(catalogService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
			r.Post("/{productId}/approve", controllers.ProductApprove(catalogService, logg))
			r.Post("/{productId}/images", controllers.ProductImageUpload(catalogService, uploader, cfg.Uploads, logg))
			r.Post("/{productId}/documents", controllers.ProductDocumentUpload(catalogService, uploader, cfg.Uploads, logg))
			r.Post("/{productId}/variants", controllers.ProductVariantCreate(catalogService, logg))
		})
		r.Post("/product-images/{imageId}/primary", controllers.ProductImageSetPrimary(catalogService, logg))
		r.Delete("/product-images/{imageId}", controllers.ProductImageDelete(catalogService, logg))
		r.Delete("/product-variants/{variantId}", controllers.ProductVariantDelete(catalogService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/export", controllers.OrderExportCSV(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Patch("/{orderId}", controllers.OrderUpdate(orderService, logg))
			r.Post("/{orderId}/status", controllers.OrderUpdateStatus(orderService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(orderService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsMerged(settingsService, logg))
			r.Post("/", controllers.SettingUpsert(settingsService, logg))
			r.Post("/email/test", controllers.SettingsTestEmail(settingsService, userService, logg))
			r.Get("/{key}", controllers.SettingGet(settingsService, logg))
		})

		r.Get("/dashboard", controllers.AnalyticsDashboard(analyticsService, logg))
		r.Get("/analytics", controllers.AnalyticsReport(analyticsService, logg))
	})

	return r
}
