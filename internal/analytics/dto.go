package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
)

// SalesPoint is one day of the sales chart.
type SalesPoint struct {
	Label string          `json:"label"`
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// ProductStat ranks a product by units sold across completed orders.
type ProductStat struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Dashboard is the landing-page snapshot: headline counts, the last week of
// sales, and the best sellers.
type Dashboard struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	RecentOrders  []models.Order  `json:"recent_orders"`
	DailySales    []SalesPoint    `json:"daily_sales"`
	TopProducts   []ProductStat   `json:"top_products"`
}

// Report is the 30-day analytics view. The sales series is gap-filled so
// every day in the window has a point.
type Report struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	SalesSeries   []SalesPoint    `json:"sales_series"`
	TopProducts   []ProductStat   `json:"top_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}
