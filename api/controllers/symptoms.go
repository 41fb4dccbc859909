package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/api/validators"
	"github.com/Anuragcr07/pharmacare-backend/internal/symptoms"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
)

type analyzeRequest struct {
	Symptoms string `json:"symptoms" validate:"required,max=500"`
}

// SymptomAnalyze suggests in-stock medicines for free-text symptoms.
func SymptomAnalyze(svc symptoms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body analyzeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Analyze(r.Context(), tenant, body.Symptoms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
