package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/api/validators"
	"github.com/Anuragcr07/pharmacare-backend/internal/search"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
)

const maxSearchTermLen = 200

// MedicineSearch serves the public medicine search across stock and catalog.
func MedicineSearch(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := validators.ParseQueryString(r, "q", maxSearchTermLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Search(r.Context(), search.Query{Term: term})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}
