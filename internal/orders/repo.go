package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAddress(ctx context.Context, address *models.OrderAddress) (*models.OrderAddress, error) {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.OrderPayment) (*models.OrderPayment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("StatusUpdates").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShippingAddress").
		Preload("BillingAddress").
		Preload("Payment").
		Preload("StatusUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_updates.timestamp ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	normalized := pagination.Normalize(params)

	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := query.
		Preload("User").
		Preload("Payment").
		Preload("ShippingAddress").
		Order("orders.created_at DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &OrderList{
		Orders: rows,
		Page:   pagination.BuildPage(normalized, total),
	}, nil
}

func (r *repository) ListAllOrders(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	var rows []models.Order
	err := r.applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters).
		Preload("User").
		Preload("Payment").
		Order("orders.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("orders.status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("orders.user_id = ?", *filters.UserID)
	}
	if filters.PaymentStatus != nil {
		query = query.
			Joins("JOIN order_payments ON order_payments.id = orders.payment_id").
			Where("order_payments.status = ?", *filters.PaymentStatus)
	}
	if filters.Search != "" {
		// LOWER+LIKE instead of ILIKE keeps the query portable to sqlite
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(filters.Search))
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(orders.shop_name) LIKE ? OR LOWER(users.username) LIKE ? OR LOWER(CAST(orders.id AS TEXT)) LIKE ?",
				pattern, pattern, pattern)
	}
	if filters.CreatedFrom != nil {
		query = query.Where("orders.created_at >= ?", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		query = query.Where("orders.created_at <= ?", *filters.CreatedTo)
	}
	return query
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) UpdateAddress(ctx context.Context, addressID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderAddress{}).
		Where("id = ?", addressID).
		Updates(updates).Error
}

func (r *repository) UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderPayment{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}
