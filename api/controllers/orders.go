package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/farmansunasara/sparehub-b2b-platform/api/middleware"
	"github.com/farmansunasara/sparehub-b2b-platform/api/responses"
	"github.com/farmansunasara/sparehub-b2b-platform/api/validators"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/orders"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := orderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{
			Orders: orders.ToDTOs(list.Orders),
			Page:   list.Page,
		})
	}
}

type orderListResponse struct {
	Orders []*orders.OrderDTO `json:"orders"`
	Page   pagination.Page    `json:"page"`
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body orders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.ToDTO(order))
	}
}

// OrderUpdate applies a partial edit across the aggregate: order fields,
// nested addresses, payment, and an optional wholesale history replacement.
func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.OrderID = id

		order, err := svc.Update(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

type statusUpdateRequest struct {
	Status  enums.OrderStatus `json:"status" validate:"required"`
	Comment string            `json:"comment"`
}

// OrderUpdateStatus transitions the order and appends a history entry. The
// legacy admin panel consumes the bare success shape, so these two
// endpoints bypass the standard envelope.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "orderId")
		if err != nil {
			writeLegacyError(r.Context(), logg, w, err)
			return
		}

		var body statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeLegacyError(r.Context(), logg, w, err)
			return
		}

		_, err = svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:       id,
			Status:        body.Status,
			Comment:       body.Comment,
			ActorUsername: middleware.UsernameFromContext(r.Context()),
		})
		if err != nil {
			writeLegacyError(r.Context(), logg, w, err)
			return
		}
		writeLegacySuccess(w)
	}
}

// OrderCancel rejects anything that has moved past pending.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "orderId")
		if err != nil {
			writeLegacyError(r.Context(), logg, w, err)
			return
		}

		_, err = svc.Cancel(r.Context(), orders.CancelInput{
			OrderID:       id,
			ActorUsername: middleware.UsernameFromContext(r.Context()),
		})
		if err != nil {
			writeLegacyError(r.Context(), logg, w, err)
			return
		}
		writeLegacySuccess(w)
	}
}

// OrderExportCSV streams the filtered listing as a CSV attachment.
func OrderExportCSV(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := orderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, err := svc.ExportCSV(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orders.ExportFilename))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func orderFilters(r *http.Request) (orders.ListFilters, error) {
	filters := orders.ListFilters{
		Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("payment_status"); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}

	var err error
	if filters.UserID, err = validators.ParseQueryUUID(r, "user_id"); err != nil {
		return filters, err
	}
	if filters.CreatedFrom, err = validators.ParseQueryDate(r, "created_from"); err != nil {
		return filters, err
	}
	if filters.CreatedTo, err = validators.ParseQueryDate(r, "created_to"); err != nil {
		return filters, err
	}
	return filters, nil
}

func writeLegacySuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func writeLegacyError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal && typed.Code() != pkgerrors.CodeDependency {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	if logg != nil {
		logg.Error(ctx, "request.error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
