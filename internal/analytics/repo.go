package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) SumOrderTotals(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ?", statuses).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *repository) AvgOrderTotal(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ?", statuses).
		Select("COALESCE(AVG(total), 0)").
		Row().Scan(&avg)
	if err != nil {
		return decimal.Zero, err
	}
	return avg, nil
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// OrdersBetween returns the slim order rows needed to bucket sales by day.
func (r *repository) OrdersBetween(ctx context.Context, from, to time.Time, statuses []enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("id", "created_at", "total", "status").
		Where("created_at BETWEEN ? AND ?", from, to)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var orders []models.Order
	err := query.Order("created_at ASC").Find(&orders).Error
	return orders, err
}

func (r *repository) OrdersWithStatus(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("id", "items").
		Where("status IN ?", statuses).
		Find(&orders).Error
	return orders, err
}

func (r *repository) ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
