package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/middleware"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
)

// pharmacyID extracts the authenticated tenant from the request context.
// Requests that reach tenant-scoped handlers without one are a routing bug,
// but the caller still gets a clean 403 rather than a panic.
func pharmacyID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.PharmacyIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "pharmacy membership required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "pharmacy membership required")
	}
	return id, nil
}
