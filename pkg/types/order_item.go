package types

import "github.com/shopspring/decimal"

// OrderItem is one entry of the embedded, ordered item list on an order.
// Items are denormalized snapshots keyed by product reference, not a join
// table; the list is stored verbatim as JSON.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal returns price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItems is the embedded item list persisted on the order row.
type OrderItems []OrderItem
