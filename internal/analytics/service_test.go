package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_staff INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  category_id TEXT NOT NULL,
  subcategory_id TEXT NOT NULL,
  brand_id TEXT,
  price NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  gst_rate NUMERIC NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  min_order_qty INTEGER NOT NULL DEFAULT 1,
  max_order_qty INTEGER,
  weight_kg NUMERIC,
  material TEXT,
  technical_specs TEXT,
  datasheet_url TEXT,
  install_guide_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_approved INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  items TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address_id TEXT NOT NULL,
  billing_address_id TEXT,
  payment_id TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func seedAnalyticsUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleShop,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAnalyticsProduct(t *testing.T, db *gorm.DB, name, sku string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:             uuid.New(),
		ManufacturerID: uuid.New(),
		Name:           name,
		SKU:            sku,
		CategoryID:     uuid.New(),
		SubcategoryID:  uuid.New(),
		Price:          decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedAnalyticsOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus, total int64, createdAt time.Time, items types.OrderItems) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		ShopName:          "AutoHub Spares",
		Items:             items,
		Status:            status,
		ShippingAddressID: uuid.New(),
		PaymentID:         uuid.New(),
		Subtotal:          decimal.NewFromInt(total),
		Tax:               decimal.Zero,
		ShippingCost:      decimal.Zero,
		Total:             decimal.NewFromInt(total),
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(order).UpdateColumn("created_at", createdAt).Error)
	order.CreatedAt = createdAt
	return order
}

type memoryCache struct {
	values map[string]string
	hits   int
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.hits++
	return c.values[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets++
	c.values[key] = string(value.([]byte))
	return nil
}

func (c *memoryCache) CacheKey(parts ...string) string {
	key := "cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func newAnalyticsService(t *testing.T, db *gorm.DB, cache Cache) *service {
	t.Helper()
	svc, err := NewService(NewRepository(db), cache)
	require.NoError(t, err)
	return svc.(*service)
}

func TestDashboardHeadlineCounts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	seedAnalyticsProduct(t, db, "Brake Pad Set", "BP-100")
	now := time.Now().UTC()

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 500, now.Add(-time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusShipped, 300, now.Add(-2*time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusPending, 200, now.Add(-3*time.Hour), nil)

	svc := newAnalyticsService(t, db, nil)
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), dashboard.TotalUsers)
	assert.Equal(t, int64(1), dashboard.TotalProducts)
	assert.Equal(t, int64(3), dashboard.TotalOrders)
	// only delivered orders count toward revenue
	assert.True(t, dashboard.Revenue.Equal(decimal.NewFromInt(500)))
	assert.Len(t, dashboard.RecentOrders, 3)
}

func TestDashboardDailySalesBuckets(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 100, now.Add(-4*time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusPending, 50, now.Add(-3*time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 75, now.AddDate(0, 0, -2), nil)

	svc := newAnalyticsService(t, db, nil)
	svc.now = func() time.Time { return now }
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, dashboard.DailySales, 2)
	assert.True(t, dashboard.DailySales[0].Total.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, int64(1), dashboard.DailySales[0].Count)
	assert.True(t, dashboard.DailySales[1].Total.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(2), dashboard.DailySales[1].Count)
}

func TestDashboardTopProductsRankByQuantity(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	pads := seedAnalyticsProduct(t, db, "Brake Pad Set", "BP-100")
	filters := seedAnalyticsProduct(t, db, "Oil Filter", "OF-200")
	now := time.Now().UTC()

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 100, now.Add(-time.Hour), types.OrderItems{
		{ProductID: pads.ID.String(), Quantity: 2, Price: decimal.NewFromInt(40)},
		{ProductID: filters.ID.String(), Quantity: 5, Price: decimal.NewFromInt(4)},
	})
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusShipped, 80, now.Add(-2*time.Hour), types.OrderItems{
		{ProductID: pads.ID.String(), Quantity: 1, Price: decimal.NewFromInt(40)},
	})
	// cancelled orders never count
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusCancelled, 400, now.Add(-3*time.Hour), types.OrderItems{
		{ProductID: pads.ID.String(), Quantity: 100, Price: decimal.NewFromInt(4)},
	})

	svc := newAnalyticsService(t, db, nil)
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, dashboard.TopProducts, 2)
	assert.Equal(t, "Oil Filter", dashboard.TopProducts[0].Name)
	assert.Equal(t, int64(5), dashboard.TopProducts[0].Quantity)
	assert.Equal(t, "Brake Pad Set", dashboard.TopProducts[1].Name)
	assert.Equal(t, int64(3), dashboard.TopProducts[1].Quantity)
	assert.True(t, dashboard.TopProducts[1].Revenue.Equal(decimal.NewFromInt(120)))
}

func TestDashboardSkipsDeletedProducts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	now := time.Now().UTC()

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 100, now.Add(-time.Hour), types.OrderItems{
		{ProductID: uuid.NewString(), Quantity: 3, Price: decimal.NewFromInt(10)},
	})

	svc := newAnalyticsService(t, db, nil)
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dashboard.TopProducts)
}

func TestDashboardServedFromCache(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	now := time.Now().UTC()
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 500, now.Add(-time.Hour), nil)

	cache := newMemoryCache()
	svc := newAnalyticsService(t, db, cache)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// a later write does not show up until the cache expires
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 500, now, nil)
	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
}

func TestReportFillsMissingDays(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	now := time.Now().UTC()

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 120, now.Add(-48*time.Hour), nil)

	svc := newAnalyticsService(t, db, nil)
	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.SalesSeries, reportWindowDays+1)
	var nonZero int
	for _, point := range report.SalesSeries {
		if !point.Total.IsZero() {
			nonZero++
			assert.Equal(t, int64(1), point.Count)
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestReportTotalsUseCompletedOrders(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	user := seedAnalyticsUser(t, db, "shopkeeper")
	now := time.Now().UTC()

	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusDelivered, 100, now.Add(-time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusShipped, 300, now.Add(-2*time.Hour), nil)
	seedAnalyticsOrder(t, db, user.ID, enums.OrderStatusPending, 999, now.Add(-3*time.Hour), nil)

	svc := newAnalyticsService(t, db, nil)
	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalOrders)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(400)))
	assert.True(t, report.AvgOrderValue.Equal(decimal.NewFromInt(200)))
}
