package controllers

import (
	"net/http"

	"stocktally/api/responses"
	dashboardsvc "stocktally/internal/dashboard"
	"stocktally/pkg/logger"
)

// DashboardStats serves the inventory summary used by the dashboard.
func DashboardStats(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
