package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
)

// Repository defines the read-side queries behind the dashboard and report.
type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	SumOrderTotals(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error)
	AvgOrderTotal(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	OrdersBetween(ctx context.Context, from, to time.Time, statuses []enums.OrderStatus) ([]models.Order, error)
	OrdersWithStatus(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Cache is the read-side cache in front of the dashboard. Satisfied by the
// redis client; nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}
