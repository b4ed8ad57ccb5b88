package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
)

const (
	dashboardRecentLimit = 10
	dashboardTopLimit    = 5
	dashboardWindowDays  = 6
	reportWindowDays     = 30
	reportTopLimit       = 10

	dashboardCacheTTL = 5 * time.Minute
)

// completedStatuses are the states that count toward sales figures.
var completedStatuses = []enums.OrderStatus{
	enums.OrderStatusDelivered,
	enums.OrderStatusShipped,
}

// Service exposes the aggregated admin views.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Report(ctx context.Context) (*Report, error)
}

type service struct {
	repo  Repository
	cache Cache
	now   func() time.Time
}

// NewService builds an analytics service. The cache is optional; passing nil
// recomputes the dashboard on every call.
func NewService(repo Repository, cache Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, cache: cache, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if cached, ok := s.cachedDashboard(ctx); ok {
		return cached, nil
	}

	dashboard := &Dashboard{}
	var err error
	if dashboard.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if dashboard.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if dashboard.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	// Revenue counts delivered orders only; shipped ones may still bounce.
	dashboard.Revenue, err = s.repo.SumOrderTotals(ctx, []enums.OrderStatus{enums.OrderStatusDelivered})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	if dashboard.RecentOrders, err = s.repo.RecentOrders(ctx, dashboardRecentLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -dashboardWindowDays)
	orders, err := s.repo.OrdersBetween(ctx, start, end, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales window")
	}
	dashboard.DailySales = bucketByDay(orders, start, end, false)

	if dashboard.TopProducts, err = s.topProducts(ctx, dashboardTopLimit); err != nil {
		return nil, err
	}

	s.storeDashboard(ctx, dashboard)
	return dashboard, nil
}

func (s *service) Report(ctx context.Context) (*Report, error) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -reportWindowDays)

	report := &Report{StartDate: start, EndDate: end}

	orders, err := s.repo.OrdersBetween(ctx, start, end, completedStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales window")
	}
	report.SalesSeries = bucketByDay(orders, start, end, true)

	if report.TopProducts, err = s.topProducts(ctx, reportTopLimit); err != nil {
		return nil, err
	}

	if report.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if report.TotalRevenue, err = s.repo.SumOrderTotals(ctx, completedStatuses); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	if report.AvgOrderValue, err = s.repo.AvgOrderTotal(ctx, completedStatuses); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average order value")
	}
	return report, nil
}

// topProducts ranks products by units sold across completed orders. Items
// referencing products that no longer exist are dropped from the ranking.
func (s *service) topProducts(ctx context.Context, limit int) ([]ProductStat, error) {
	orders, err := s.repo.OrdersWithStatus(ctx, completedStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed orders")
	}

	quantities := make(map[uuid.UUID]int64)
	revenue := make(map[uuid.UUID]decimal.Decimal)
	for _, order := range orders {
		for _, item := range order.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				continue
			}
			quantity := int64(item.Quantity)
			if quantity <= 0 {
				quantity = 1
			}
			quantities[productID] += quantity
			revenue[productID] = revenue[productID].Add(item.LineTotal())
		}
	}

	ranked := make([]ProductStat, 0, len(quantities))
	for productID, quantity := range quantities {
		ranked = append(ranked, ProductStat{
			ProductID: productID,
			Quantity:  quantity,
			Revenue:   revenue[productID],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]uuid.UUID, 0, len(ranked))
	for _, stat := range ranked {
		ids = append(ids, stat.ProductID)
	}
	names, err := s.repo.ProductNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product names")
	}

	stats := make([]ProductStat, 0, len(ranked))
	for _, stat := range ranked {
		name, ok := names[stat.ProductID]
		if !ok {
			continue
		}
		stat.Name = name
		stats = append(stats, stat)
	}
	return stats, nil
}

// bucketByDay groups order totals into one point per calendar day. With fill
// set, days without sales appear as zero points so charts have no gaps.
func bucketByDay(orders []models.Order, start, end time.Time, fill bool) []SalesPoint {
	totals := make(map[string]*SalesPoint)
	for _, order := range orders {
		day := order.CreatedAt.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		point, ok := totals[key]
		if !ok {
			point = &SalesPoint{Date: day, Label: day.Format("Jan 02")}
			totals[key] = point
		}
		point.Total = point.Total.Add(order.Total)
		point.Count++
	}

	series := make([]SalesPoint, 0, len(totals))
	first := start.UTC().Truncate(24 * time.Hour)
	last := end.UTC().Truncate(24 * time.Hour)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if point, ok := totals[day.Format("2006-01-02")]; ok {
			series = append(series, *point)
			continue
		}
		if fill {
			series = append(series, SalesPoint{
				Date:  day,
				Label: day.Format("Jan 02"),
				Total: decimal.Zero,
			})
		}
	}
	return series
}

func (s *service) cachedDashboard(ctx context.Context) (*Dashboard, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("dashboard"))
	if err != nil || raw == "" {
		return nil, false
	}
	var dashboard Dashboard
	if err := json.Unmarshal([]byte(raw), &dashboard); err != nil {
		return nil, false
	}
	return &dashboard, true
}

// storeDashboard is best effort; a cache outage never fails the request.
func (s *service) storeDashboard(ctx context.Context, dashboard *Dashboard) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, s.cache.CacheKey("dashboard"), raw, dashboardCacheTTL)
}
