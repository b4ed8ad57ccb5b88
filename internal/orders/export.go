package orders

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
)

// ExportFilename is the suggested attachment name for CSV downloads.
const ExportFilename = "orders_export.csv"

var exportHeader = []string{
	"Order ID",
	"Customer",
	"Shop Name",
	"Status",
	"Payment Status",
	"Payment Method",
	"Total",
	"Subtotal",
	"Tax",
	"Shipping Cost",
	"Created At",
	"Item Count",
}

// ExportCSV renders every order matching the filters as CSV, one row per
// order. Statuses are title-cased and the payment method is upper-cased in
// the output only; stored values are untouched.
func (s *service) ExportCSV(ctx context.Context, filters ListFilters) ([]byte, error) {
	rows, err := s.repo.ListAllOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders for export")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}

	for _, order := range rows {
		username := ""
		if order.User != nil {
			username = order.User.Username
		}
		paymentStatus := ""
		paymentMethod := ""
		if order.Payment != nil {
			paymentStatus = titleCase(order.Payment.Status.String())
			paymentMethod = strings.ToUpper(order.Payment.Method.String())
		}
		record := []string{
			order.ID.String(),
			username,
			order.ShopName,
			titleCase(order.Status.String()),
			paymentStatus,
			paymentMethod,
			order.Total.StringFixed(2),
			order.Subtotal.StringFixed(2),
			order.Tax.StringFixed(2),
			order.ShippingCost.StringFixed(2),
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			strconv.Itoa(len(order.Items)),
		}
		if err := writer.Write(record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return buf.Bytes(), nil
}

func titleCase(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
