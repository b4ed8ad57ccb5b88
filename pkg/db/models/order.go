package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// Order is the aggregate root composing addresses, a payment record, an
// embedded item list, and an append-only status history. Orders are never
// physically deleted in the normal flow; cancellation is a status change.
type Order struct {
	ID       uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	User     *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ShopName string            `gorm:"column:shop_name;not null"`
	Items    types.OrderItems  `gorm:"column:items;type:jsonb;serializer:json"`
	Status   enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	ShippingAddressID uuid.UUID     `gorm:"column:shipping_address_id;type:uuid;not null"`
	ShippingAddress   *OrderAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:CASCADE"`
	BillingAddressID  *uuid.UUID    `gorm:"column:billing_address_id;type:uuid"`
	BillingAddress    *OrderAddress `gorm:"foreignKey:BillingAddressID"`
	PaymentID         uuid.UUID     `gorm:"column:payment_id;type:uuid;not null;uniqueIndex"`
	Payment           *OrderPayment `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`

	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax          decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	Metadata *types.JSONMap `gorm:"column:metadata;type:jsonb;serializer:json"`

	// Status updates are shared rows joined through an append-only link
	// table, not owned exclusively by one order.
	StatusUpdates []OrderStatusUpdate `gorm:"many2many:order_status_links"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderAddress is a plain value entity owned by exactly one order role
// (shipping or billing); it is never shared across orders.
type OrderAddress struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Phone        string    `gorm:"column:phone;not null"`
	AddressLine1 string    `gorm:"column:address_line1;not null"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	Pincode      string    `gorm:"column:pincode;not null"`
	Country      string    `gorm:"column:country;not null"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderPayment is owned 1:1 by its order.
type OrderPayment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	TransactionID *string             `gorm:"column:transaction_id"`
	Metadata      *types.JSONMap      `gorm:"column:metadata;type:jsonb;serializer:json"`
	Timestamp     time.Time           `gorm:"column:timestamp;autoCreateTime"`
}

// OrderStatusUpdate is immutable once created; rows are only ever linked
// to orders, never edited or removed individually.
type OrderStatusUpdate struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Comment   string            `gorm:"column:comment"`
	Timestamp time.Time         `gorm:"column:timestamp;autoCreateTime"`
}
