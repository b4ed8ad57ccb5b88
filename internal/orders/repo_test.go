package orders

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
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
	addresses := `
CREATE TABLE IF NOT EXISTS order_addresses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address_line1 TEXT NOT NULL,
  address_line2 TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pincode TEXT NOT NULL,
  country TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS order_payments (
  id TEXT PRIMARY KEY,
  method TEXT NOT NULL,
  status TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  transaction_id TEXT,
  metadata TEXT,
  timestamp DATETIME
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
	statusUpdates := `
CREATE TABLE IF NOT EXISTS order_status_updates (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  comment TEXT,
  timestamp DATETIME
);`
	statusLinks := `
CREATE TABLE IF NOT EXISTS order_status_links (
  order_id TEXT NOT NULL,
  order_status_update_id TEXT NOT NULL,
  PRIMARY KEY (order_id, order_status_update_id)
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(addresses).Error)
	require.NoError(t, db.Exec(payments).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(statusUpdates).Error)
	require.NoError(t, db.Exec(statusLinks).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
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

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus, paymentStatus enums.PaymentStatus) *models.Order {
	t.Helper()
	repo := NewRepository(db)
	ctx := context.Background()

	shipping, err := repo.CreateAddress(ctx, &models.OrderAddress{
		ID: uuid.New(), Name: "S", Phone: "1", AddressLine1: "a",
		City: "Pune", State: "MH", Pincode: "411001", Country: "IN",
	})
	require.NoError(t, err)

	payment, err := repo.CreatePayment(ctx, &models.OrderPayment{
		ID: uuid.New(), Method: enums.PaymentMethodCOD, Status: paymentStatus,
		Amount: decimal.NewFromInt(158),
	})
	require.NoError(t, err)

	order, err := repo.CreateOrder(ctx, &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		ShopName:          "AutoHub Spares",
		Items:             types.OrderItems{{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(50)}},
		Status:            status,
		ShippingAddressID: shipping.ID,
		PaymentID:         payment.ID,
		Subtotal:          decimal.NewFromInt(100),
		Tax:               decimal.NewFromInt(18),
		ShippingCost:      decimal.NewFromInt(40),
		Total:             decimal.NewFromInt(158),
	})
	require.NoError(t, err)
	return order
}

func TestRepoFindOrderPreloadsAggregate(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	order := seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)

	repo := NewRepository(db)
	found, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)

	require.NotNil(t, found.User)
	assert.Equal(t, "shopkeeper", found.User.Username)
	require.NotNil(t, found.ShippingAddress)
	require.NotNil(t, found.Payment)
	assert.Nil(t, found.BillingAddress)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestRepoFindOrderNotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoListOrdersFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)
	seedOrder(t, db, user.ID, enums.OrderStatusShipped, enums.PaymentStatusCompleted)
	seedOrder(t, db, user.ID, enums.OrderStatusShipped, enums.PaymentStatusPending)

	repo := NewRepository(db)
	status := enums.OrderStatusShipped
	list, err := repo.ListOrders(context.Background(), pagination.Params{}, ListFilters{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, int64(2), list.Page.TotalCount)
	for _, row := range list.Orders {
		assert.Equal(t, enums.OrderStatusShipped, row.Status)
	}
}

func TestRepoListOrdersFiltersByPaymentStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)
	seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusCompleted)

	repo := NewRepository(db)
	paymentStatus := enums.PaymentStatusCompleted
	list, err := repo.ListOrders(context.Background(), pagination.Params{}, ListFilters{PaymentStatus: &paymentStatus})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.Page.TotalCount)
}

func TestRepoListOrdersSearchIsCaseInsensitive(t *testing.T) {
	db := setupOrdersTestDB(t)
	shopkeeper := seedUser(t, db, "shopkeeper")
	other := seedUser(t, db, "mechanic")
	seedOrder(t, db, shopkeeper.ID, enums.OrderStatusPending, enums.PaymentStatusPending)
	seedOrder(t, db, other.ID, enums.OrderStatusPending, enums.PaymentStatusPending)

	repo := NewRepository(db)
	list, err := repo.ListOrders(context.Background(), pagination.Params{}, ListFilters{Search: "SHOPKEEPER"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.Page.TotalCount)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, shopkeeper.ID, list.Orders[0].UserID)
}

func TestRepoCreateGeneratesIDsClientSide(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	// no id supplied and no database default available here
	address, err := repo.CreateAddress(context.Background(), &models.OrderAddress{
		Name: "S", Phone: "1", AddressLine1: "a",
		City: "Pune", State: "MH", Pincode: "411001", Country: "IN",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, address.ID)
}

func TestRepoListOrdersPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	for i := 0; i < 5; i++ {
		seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)
	}

	repo := NewRepository(db)
	list, err := repo.ListOrders(context.Background(), pagination.Params{Page: 2, Limit: 2}, ListFilters{})
	require.NoError(t, err)

	assert.Len(t, list.Orders, 2)
	assert.Equal(t, int64(5), list.Page.TotalCount)
	assert.Equal(t, 3, list.Page.TotalPages)
}

func TestHistoryAppendKeepsExistingRows(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	order := seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)

	hist := NewHistory(db)
	ctx := context.Background()

	first := &models.OrderStatusUpdate{ID: uuid.New(), Status: enums.OrderStatusConfirmed, Comment: "one", Timestamp: time.Now().Add(-time.Minute)}
	second := &models.OrderStatusUpdate{ID: uuid.New(), Status: enums.OrderStatusShipped, Comment: "two", Timestamp: time.Now()}
	require.NoError(t, hist.Append(ctx, order.ID, first))
	require.NoError(t, hist.Append(ctx, order.ID, second))

	rows, err := hist.ListForOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0].Comment)
	assert.Equal(t, "two", rows[1].Comment)
}

func TestHistoryReplaceAllSwapsLinks(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	order := seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)

	hist := NewHistory(db)
	ctx := context.Background()

	old := &models.OrderStatusUpdate{ID: uuid.New(), Status: enums.OrderStatusConfirmed, Comment: "old"}
	require.NoError(t, hist.Append(ctx, order.ID, old))

	replacement := []models.OrderStatusUpdate{
		{ID: uuid.New(), Status: enums.OrderStatusPending, Comment: "new-1", Timestamp: time.Now().Add(-time.Minute)},
		{ID: uuid.New(), Status: enums.OrderStatusProcessing, Comment: "new-2", Timestamp: time.Now()},
	}
	require.NoError(t, hist.ReplaceAll(ctx, order.ID, replacement))

	rows, err := hist.ListForOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "new-1", rows[0].Comment)
	assert.Equal(t, "new-2", rows[1].Comment)

	// the old row itself is kept, only its link is gone
	var count int64
	require.NoError(t, db.Model(&models.OrderStatusUpdate{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestRepoUpdateOrderStatusColumn(t *testing.T) {
	db := setupOrdersTestDB(t)
	user := seedUser(t, db, "shopkeeper")
	order := seedOrder(t, db, user.ID, enums.OrderStatusPending, enums.PaymentStatusPending)

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusDelivered}))

	found, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, found.Status)
}
