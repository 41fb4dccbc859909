package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/internal/patients"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
)

// PatientList returns the distinct patients derived from the pharmacy's sales.
func PatientList(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPatients(r.Context(), tenant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"patients": list})
	}
}
