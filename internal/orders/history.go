package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
)

type statusLink struct {
	OrderID             uuid.UUID `gorm:"column:order_id"`
	OrderStatusUpdateID uuid.UUID `gorm:"column:order_status_update_id"`
}

func (statusLink) TableName() string { return "order_status_links" }

type history struct {
	db *gorm.DB
}

// NewHistory builds the status trail store bound to the provided DB.
func NewHistory(db *gorm.DB) History {
	return &history{db: db}
}

func (h *history) WithTx(tx *gorm.DB) History {
	if tx == nil {
		return h
	}
	return &history{db: tx}
}

// Append inserts one immutable status row and links it to the order.
// Existing links are never touched.
func (h *history) Append(ctx context.Context, orderID uuid.UUID, update *models.OrderStatusUpdate) error {
	if err := h.db.WithContext(ctx).Create(update).Error; err != nil {
		return err
	}
	link := statusLink{OrderID: orderID, OrderStatusUpdateID: update.ID}
	return h.db.WithContext(ctx).Create(&link).Error
}

// ReplaceAll creates fresh status rows and swaps the order's link set to
// point at them. The prior rows stay in place; only the links change.
func (h *history) ReplaceAll(ctx context.Context, orderID uuid.UUID, updates []models.OrderStatusUpdate) error {
	if err := h.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&statusLink{}).Error; err != nil {
		return err
	}
	for i := range updates {
		if err := h.Append(ctx, orderID, &updates[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *history) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusUpdate, error) {
	var rows []models.OrderStatusUpdate
	err := h.db.WithContext(ctx).
		Joins("JOIN order_status_links ON order_status_links.order_status_update_id = order_status_updates.id").
		Where("order_status_links.order_id = ?", orderID).
		Order("order_status_updates.timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
