package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/internal/stats"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
)

// StatsDashboard returns the headline numbers for the dashboard screen.
func StatsDashboard(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), tenant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// StatsRevenue returns revenue windows plus the daily breakdown.
func StatsRevenue(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		revenue, err := svc.Revenue(r.Context(), tenant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, revenue)
	}
}
