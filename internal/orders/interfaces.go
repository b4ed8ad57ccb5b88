package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

// Repository defines persistence operations for the order aggregate tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAddress(ctx context.Context, address *models.OrderAddress) (*models.OrderAddress, error)
	CreatePayment(ctx context.Context, payment *models.OrderPayment) (*models.OrderPayment, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListAllOrders(ctx context.Context, filters ListFilters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateAddress(ctx context.Context, addressID uuid.UUID, updates map[string]any) error
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error
}

// History defines the append-only status trail operations. Appends add one
// immutable row; ReplaceAll swaps the full set of links for an order.
type History interface {
	WithTx(tx *gorm.DB) History
	Append(ctx context.Context, orderID uuid.UUID, update *models.OrderStatusUpdate) error
	ReplaceAll(ctx context.Context, orderID uuid.UUID, updates []models.OrderStatusUpdate) error
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusUpdate, error)
}
