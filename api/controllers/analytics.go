package controllers

import (
	"net/http"

	"github.com/farmansunasara/sparehub-b2b-platform/api/responses"
	"github.com/farmansunasara/sparehub-b2b-platform/internal/analytics"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
)

// AnalyticsDashboard returns the cached seven-day admin dashboard.
func AnalyticsDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// AnalyticsReport returns the thirty-day sales report.
func AnalyticsReport(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Report(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
