package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order aggregate operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	Update(ctx context.Context, input UpdateOrderInput) (*models.Order, error)
	ExportCSV(ctx context.Context, filters ListFilters) ([]byte, error)
}

type service struct {
	repo    Repository
	history History
	tx      txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, history History, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if history == nil {
		return nil, fmt.Errorf("order history store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, history: history, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.ShopName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name required")
	}
	if !input.Payment.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.Payment.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	for _, seed := range input.StatusUpdates {
		if !seed.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status in history seed")
		}
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	status := enums.OrderStatusPending
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid initial status %q", *input.Status))
		}
		status = *input.Status
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		hist := s.history.WithTx(tx)

		shipping, err := repo.CreateAddress(ctx, addressFromInput(input.ShippingAddress))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipping address")
		}

		var billingID *uuid.UUID
		if input.BillingAddress != nil {
			billing, err := repo.CreateAddress(ctx, addressFromInput(*input.BillingAddress))
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create billing address")
			}
			billingID = &billing.ID
		}

		payment, err := repo.CreatePayment(ctx, &models.OrderPayment{
			Method:        input.Payment.Method,
			Status:        input.Payment.Status,
			Amount:        input.Payment.Amount,
			TransactionID: input.Payment.TransactionID,
			Metadata:      input.Payment.Metadata,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		items := input.Items
		if items == nil {
			items = types.OrderItems{}
		}

		order, err := repo.CreateOrder(ctx, &models.Order{
			UserID:            input.UserID,
			ShopName:          input.ShopName,
			Items:             items,
			Status:            status,
			ShippingAddressID: shipping.ID,
			BillingAddressID:  billingID,
			PaymentID:         payment.ID,
			Subtotal:          input.Subtotal,
			Tax:               input.Tax,
			ShippingCost:      input.ShippingCost,
			Total:             input.Total,
			Metadata:          input.Metadata,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for _, seed := range input.StatusUpdates {
			row := &models.OrderStatusUpdate{Status: seed.Status, Comment: seed.Comment}
			if seed.Timestamp != nil {
				row.Timestamp = *seed.Timestamp
			}
			if err := hist.Append(ctx, order.ID, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed status history")
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// UpdateStatus moves an order to the requested status and appends one
// immutable history row describing who did it.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Status))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		hist := s.history.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": input.Status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		comment := input.Comment
		if comment == "" {
			comment = fmt.Sprintf("Status updated to %s by %s", input.Status, input.ActorUsername)
		}
		update := &models.OrderStatusUpdate{Status: input.Status, Comment: comment}
		if err := hist.Append(ctx, order.ID, update); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.OrderID)
}

// Cancel is only legal from the pending state.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		hist := s.history.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Only pending orders can be cancelled")
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		update := &models.OrderStatusUpdate{
			Status:  enums.OrderStatusCancelled,
			Comment: fmt.Sprintf("Order cancelled by %s", input.ActorUsername),
		}
		if err := hist.Append(ctx, order.ID, update); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.OrderID)
}

// Update applies a partial edit across the aggregate. Nested pieces follow
// the nested-write rules: shipping address fields merge in place, a billing
// payload merges when an address exists and creates one otherwise, payment
// fields merge, and a non-nil status update list replaces the whole trail.
func (s *service) Update(ctx context.Context, input UpdateOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
	}
	if input.Payment != nil {
		if input.Payment.Method != nil && !input.Payment.Method.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		if input.Payment.Status != nil && !input.Payment.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
	}
	if input.StatusUpdates != nil {
		for _, seed := range *input.StatusUpdates {
			if !seed.Status.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status in history list")
			}
		}
	}
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		hist := s.history.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if input.ShippingAddress != nil {
			if err := repo.UpdateAddress(ctx, order.ShippingAddressID, addressUpdates(*input.ShippingAddress)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping address")
			}
		}

		orderUpdates := map[string]any{}

		if input.BillingAddress != nil {
			if order.BillingAddressID != nil {
				if err := repo.UpdateAddress(ctx, *order.BillingAddressID, addressUpdates(*input.BillingAddress)); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update billing address")
				}
			} else {
				billing, err := repo.CreateAddress(ctx, addressFromInput(*input.BillingAddress))
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create billing address")
				}
				orderUpdates["billing_address_id"] = billing.ID
			}
		}

		if input.Payment != nil {
			if err := repo.UpdatePayment(ctx, order.PaymentID, paymentUpdates(*input.Payment)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
		}

		if input.StatusUpdates != nil {
			rows := make([]models.OrderStatusUpdate, 0, len(*input.StatusUpdates))
			for _, seed := range *input.StatusUpdates {
				row := models.OrderStatusUpdate{Status: seed.Status, Comment: seed.Comment}
				if seed.Timestamp != nil {
					row.Timestamp = *seed.Timestamp
				}
				rows = append(rows, row)
			}
			if err := hist.ReplaceAll(ctx, order.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace status history")
			}
		}

		if input.Status != nil {
			orderUpdates["status"] = *input.Status
		}
		if input.ShopName != nil {
			orderUpdates["shop_name"] = *input.ShopName
		}
		if input.Items != nil {
			orderUpdates["items"] = *input.Items
		}
		if input.Subtotal != nil {
			orderUpdates["subtotal"] = *input.Subtotal
		}
		if input.Tax != nil {
			orderUpdates["tax"] = *input.Tax
		}
		if input.ShippingCost != nil {
			orderUpdates["shipping_cost"] = *input.ShippingCost
		}
		if input.Total != nil {
			orderUpdates["total"] = *input.Total
		}
		if input.Metadata != nil {
			orderUpdates["metadata"] = *input.Metadata
		}

		if err := repo.UpdateOrder(ctx, order.ID, orderUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.OrderID)
}

// validateItems checks every entry of the embedded item list and collects
// all failures into one field-keyed map so the caller sees the full picture
// in a single round trip.
func validateItems(items types.OrderItems) error {
	fields := map[string]string{}
	for i, item := range items {
		if item.ProductID == "" {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product reference required"
		}
		if item.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be at least 1"
		}
		if item.Price.IsNegative() {
			fields[fmt.Sprintf("items[%d].price", i)] = "price cannot be negative"
		}
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order items").WithDetails(fields)
	}
	return nil
}

func addressFromInput(input AddressInput) *models.OrderAddress {
	return &models.OrderAddress{
		Name:         input.Name,
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Pincode:      input.Pincode,
		Country:      input.Country,
		IsDefault:    input.IsDefault,
	}
}

func addressUpdates(input AddressInput) map[string]any {
	updates := map[string]any{
		"name":          input.Name,
		"phone":         input.Phone,
		"address_line1": input.AddressLine1,
		"city":          input.City,
		"state":         input.State,
		"pincode":       input.Pincode,
		"country":       input.Country,
		"is_default":    input.IsDefault,
	}
	if input.AddressLine2 != nil {
		updates["address_line2"] = *input.AddressLine2
	}
	return updates
}

func paymentUpdates(input PaymentUpdateInput) map[string]any {
	updates := map[string]any{}
	if input.Method != nil {
		updates["method"] = *input.Method
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.TransactionID != nil {
		updates["transaction_id"] = *input.TransactionID
	}
	if input.Metadata != nil {
		updates["metadata"] = *input.Metadata
	}
	return updates
}
