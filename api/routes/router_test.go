package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/farmansunasara/sparehub-b2b-platform/internal/analytics"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/catalog"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/orders"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/settings"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/users"
	pkgAuth "github.com/farmansunasara/sparehub-b2b-platform/pkg/auth"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/auth/session"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-token", nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return session.NewAccessID(), "rotated-token", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubUserService struct {
	list func(ctx context.Context, params pagination.Params, filters users.ListFilters) (*users.UserList, error)
}

func (s stubUserService) List(ctx context.Context, params pagination.Params, filters users.ListFilters) (*users.UserList, error) {
	if s.list != nil {
		return s.list(ctx, params, filters)
	}
	return &users.UserList{}, nil
}

func (stubUserService) Create(ctx context.Context, input users.CreateUserInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Update(ctx context.Context, input users.UpdateUserInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) ToggleActive(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Delete(ctx context.Context, userID uuid.UUID) error {
	panic("unimplemented")
}

type stubCatalogService struct{}

func (stubCatalogService) CreateCategory(ctx context.Context, input catalog.CategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (stubCatalogService) ListSubcategories(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input catalog.CategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateBrand(ctx context.Context, input catalog.BrandInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	return []models.Brand{}, nil
}

func (stubCatalogService) UpdateBrand(ctx context.Context, id uuid.UUID, input catalog.BrandInput) (*models.Brand, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateCar(ctx context.Context, input catalog.CarInput) (*models.Car, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListCars(ctx context.Context) ([]models.Car, error) {
	return []models.Car{}, nil
}

func (stubCatalogService) DeleteCar(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.ProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListProducts(ctx context.Context, params pagination.Params, filters catalog.ProductFilters) (*catalog.ProductList, error) {
	return &catalog.ProductList{}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.ProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) ApproveProduct(ctx context.Context, id uuid.UUID, approved bool) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) AttachProductDocument(ctx context.Context, id uuid.UUID, kind catalog.DocumentKind, url string) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) AddProductImage(ctx context.Context, productID uuid.UUID, input catalog.ImageInput) (*models.ProductImage, error) {
	panic("unimplemented")
}

func (stubCatalogService) SetPrimaryImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error) {
	panic("unimplemented")
}

func (stubCatalogService) RemoveProductImage(ctx context.Context, imageID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) AddVariant(ctx context.Context, productID uuid.UUID, input catalog.VariantInput) (*models.ProductVariant, error) {
	panic("unimplemented")
}

func (stubCatalogService) RemoveVariant(ctx context.Context, variantID uuid.UUID) error {
	panic("unimplemented")
}

type stubOrderService struct {
	cancel func(ctx context.Context, input orders.CancelInput) (*models.Order, error)
	export func(ctx context.Context, filters orders.ListFilters) ([]byte, error)
}

func (s stubOrderService) Cancel(ctx context.Context, input orders.CancelInput) (*models.Order, error) {
	if s.cancel != nil {
		return s.cancel(ctx, input)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) ExportCSV(ctx context.Context, filters orders.ListFilters) ([]byte, error) {
	if s.export != nil {
		return s.export(ctx, filters)
	}
	return []byte("order_number\n"), nil
}

func (stubOrderService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, input orders.UpdateStatusInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrderService) Update(ctx context.Context, input orders.UpdateOrderInput) (*models.Order, error) {
	panic("unimplemented")
}

type stubSettingsService struct{}

func (stubSettingsService) Upsert(ctx context.Context, userID uuid.UUID, input settings.UpsertInput) (*models.Setting, error) {
	panic("unimplemented")
}

func (stubSettingsService) Get(ctx context.Context, userID uuid.UUID, key string) (types.JSONMap, error) {
	return types.JSONMap{}, nil
}

func (stubSettingsService) Merged(ctx context.Context, userID uuid.UUID) (types.JSONMap, error) {
	return types.JSONMap{}, nil
}

func (stubSettingsService) TestEmail(ctx context.Context, cfg settings.EmailSettings, recipient string) error {
	panic("unimplemented")
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	return &analytics.Dashboard{}, nil
}

func (stubAnalyticsService) Report(ctx context.Context) (*analytics.Report, error) {
	return &analytics.Report{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "sparehub-test",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(cfg *config.Config, orderSvc orders.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionManager{},
		nil,
		nil,
		nil,
		stubUserService{},
		stubCatalogService{},
		orderSvc,
		stubSettingsService{},
		stubAnalyticsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "router-test",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveReportsEnv(t *testing.T) {
	router := newTestRouter(testConfig(), stubOrderService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", resp.Code)
	}
	if got := resp.Header().Get("X-SpareHub-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), stubOrderService{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubOrderService{})

	shop := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	shop.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleShop))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, shop)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderCancelReturnsLegacyShape(t *testing.T) {
	cfg := testConfig()
	svc := stubOrderService{
		cancel: func(ctx context.Context, input orders.CancelInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Only pending orders can be cancelled")
		},
	}
	router := newTestRouter(cfg, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-pending cancel got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if success, ok := body["success"].(bool); !ok || success {
		t.Fatalf("expected success false got %v", body["success"])
	}
	if body["error"] != "Only pending orders can be cancelled" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}

func TestOrderExportSetsAttachmentHeaders(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/export", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for export got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv got %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "orders_export.csv") {
		t.Fatalf("expected attachment filename got %q", got)
	}
	if !strings.Contains(resp.Body.String(), "order_number") {
		t.Fatalf("expected csv header in body got %q", resp.Body.String())
	}
}
