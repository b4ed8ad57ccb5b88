package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// AddressInput carries one shipping or billing address payload.
type AddressInput struct {
	Name         string  `json:"name" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	AddressLine1 string  `json:"address_line1" validate:"required"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	Pincode      string  `json:"pincode" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	IsDefault    bool    `json:"is_default"`
}

// PaymentInput carries the payment record created alongside an order.
type PaymentInput struct {
	Method        enums.PaymentMethod `json:"method" validate:"required"`
	Status        enums.PaymentStatus `json:"status" validate:"required"`
	Amount        decimal.Decimal     `json:"amount"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	Metadata      *types.JSONMap      `json:"metadata,omitempty"`
}

// CreateOrderInput captures everything needed to assemble a new order aggregate.
type CreateOrderInput struct {
	UserID          uuid.UUID        `json:"user_id" validate:"required"`
	ShopName        string           `json:"shop_name" validate:"required"`
	Items           types.OrderItems `json:"items"`
	ShippingAddress AddressInput     `json:"shipping_address" validate:"required"`
	BillingAddress  *AddressInput    `json:"billing_address,omitempty"`
	Payment         PaymentInput     `json:"payment" validate:"required"`

	// Status overrides the default initial status of pending when set.
	Status *enums.OrderStatus `json:"status,omitempty"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	Metadata     *types.JSONMap  `json:"metadata,omitempty"`

	// Optional seed history, linked verbatim after the order row exists.
	StatusUpdates []StatusUpdateInput `json:"status_updates,omitempty"`
}

// UpdateStatusInput drives the dedicated status transition operation.
type UpdateStatusInput struct {
	OrderID       uuid.UUID
	Status        enums.OrderStatus
	Comment       string
	ActorUsername string
}

// CancelInput drives the dedicated cancellation operation.
type CancelInput struct {
	OrderID       uuid.UUID
	ActorUsername string
}

// StatusUpdateInput is one entry of a wholesale history replacement.
type StatusUpdateInput struct {
	Status    enums.OrderStatus `json:"status" validate:"required"`
	Comment   string            `json:"comment"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

// UpdateOrderInput is the partial-update payload for the general edit
// operation. Nil fields are left untouched.
type UpdateOrderInput struct {
	OrderID uuid.UUID

	Status          *enums.OrderStatus   `json:"status,omitempty"`
	Items           *types.OrderItems    `json:"items,omitempty"`
	ShopName        *string              `json:"shop_name,omitempty"`
	Subtotal        *decimal.Decimal     `json:"subtotal,omitempty"`
	Tax             *decimal.Decimal     `json:"tax,omitempty"`
	ShippingCost    *decimal.Decimal     `json:"shipping_cost,omitempty"`
	Total           *decimal.Decimal     `json:"total,omitempty"`
	Metadata        *types.JSONMap       `json:"metadata,omitempty"`
	ShippingAddress *AddressInput        `json:"shipping_address,omitempty"`
	BillingAddress  *AddressInput        `json:"billing_address,omitempty"`
	Payment         *PaymentUpdateInput  `json:"payment,omitempty"`
	StatusUpdates   *[]StatusUpdateInput `json:"status_updates,omitempty"`
}

// PaymentUpdateInput mutates fields on the owned payment record.
type PaymentUpdateInput struct {
	Method        *enums.PaymentMethod `json:"method,omitempty"`
	Status        *enums.PaymentStatus `json:"status,omitempty"`
	Amount        *decimal.Decimal     `json:"amount,omitempty"`
	TransactionID *string              `json:"transaction_id,omitempty"`
	Metadata      *types.JSONMap       `json:"metadata,omitempty"`
}

// ListFilters narrows order listings.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	UserID        *uuid.UUID
	Search        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// OrderList pairs one page of orders with paging metadata.
type OrderList struct {
	Orders []models.Order  `json:"orders"`
	Page   pagination.Page `json:"page"`
}

// OrderItemDTO mirrors one item entry with the price as a plain number.
type OrderItemDTO struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderAddressDTO is the wire shape of an owned address row.
type OrderAddressDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	Country      string    `json:"country"`
	IsDefault    bool      `json:"is_default"`
}

// OrderPaymentDTO is the wire shape of the owned payment record.
type OrderPaymentDTO struct {
	ID            uuid.UUID           `json:"id"`
	Method        enums.PaymentMethod `json:"method"`
	Status        enums.PaymentStatus `json:"status"`
	Amount        float64             `json:"amount"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	Metadata      *types.JSONMap      `json:"metadata,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// OrderStatusUpdateDTO is one history entry.
type OrderStatusUpdateDTO struct {
	ID        uuid.UUID         `json:"id"`
	Status    enums.OrderStatus `json:"status"`
	Comment   string            `json:"comment"`
	Timestamp time.Time         `json:"timestamp"`
}

// OrderDTO is the wire representation of the composed aggregate. The owning
// user appears as id plus username only; account internals never leave the
// service layer. Monetary values are plain numbers on the wire while storage
// stays fixed-point.
type OrderDTO struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	Customer      string                 `json:"customer,omitempty"`
	ShopName      string                 `json:"shop_name"`
	Status        enums.OrderStatus      `json:"status"`
	Items         []OrderItemDTO         `json:"items"`
	Subtotal      float64                `json:"subtotal"`
	Tax           float64                `json:"tax"`
	ShippingCost  float64                `json:"shipping_cost"`
	Total         float64                `json:"total"`
	Metadata      *types.JSONMap         `json:"metadata,omitempty"`
	ShippingAddr  *OrderAddressDTO       `json:"shipping_address,omitempty"`
	BillingAddr   *OrderAddressDTO       `json:"billing_address,omitempty"`
	Payment       *OrderPaymentDTO       `json:"payment,omitempty"`
	StatusUpdates []OrderStatusUpdateDTO `json:"status_updates"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func addressToDTO(address *models.OrderAddress) *OrderAddressDTO {
	if address == nil {
		return nil
	}
	return &OrderAddressDTO{
		ID:           address.ID,
		Name:         address.Name,
		Phone:        address.Phone,
		AddressLine1: address.AddressLine1,
		AddressLine2: address.AddressLine2,
		City:         address.City,
		State:        address.State,
		Pincode:      address.Pincode,
		Country:      address.Country,
		IsDefault:    address.IsDefault,
	}
}

// ToDTO converts the order row and its preloaded associations.
func ToDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		ShopName:      order.ShopName,
		Status:        order.Status,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		Subtotal:      order.Subtotal.InexactFloat64(),
		Tax:           order.Tax.InexactFloat64(),
		ShippingCost:  order.ShippingCost.InexactFloat64(),
		Total:         order.Total.InexactFloat64(),
		Metadata:      order.Metadata,
		ShippingAddr:  addressToDTO(order.ShippingAddress),
		BillingAddr:   addressToDTO(order.BillingAddress),
		StatusUpdates: make([]OrderStatusUpdateDTO, 0, len(order.StatusUpdates)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.User != nil {
		dto.Customer = order.User.Username
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	if order.Payment != nil {
		dto.Payment = &OrderPaymentDTO{
			ID:            order.Payment.ID,
			Method:        order.Payment.Method,
			Status:        order.Payment.Status,
			Amount:        order.Payment.Amount.InexactFloat64(),
			TransactionID: order.Payment.TransactionID,
			Metadata:      order.Payment.Metadata,
			Timestamp:     order.Payment.Timestamp,
		}
	}
	for _, update := range order.StatusUpdates {
		dto.StatusUpdates = append(dto.StatusUpdates, OrderStatusUpdateDTO{
			ID:        update.ID,
			Status:    update.Status,
			Comment:   update.Comment,
			Timestamp: update.Timestamp,
		})
	}
	return dto
}

// ToDTOs converts a slice of order rows.
func ToDTOs(rows []models.Order) []*OrderDTO {
	dtos := make([]*OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos
}
