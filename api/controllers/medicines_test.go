package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anuragcr07/pharmacare-backend/internal/search"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubSearchService struct {
	searchFn func(ctx context.Context, query search.Query) ([]search.Result, error)
}

func (s *stubSearchService) Search(ctx context.Context, query search.Query) ([]search.Result, error) {
	return s.searchFn(ctx, query)
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func TestMedicineSearchPassesTerm(t *testing.T) {
	var gotQuery search.Query
	svc := &stubSearchService{
		searchFn: func(ctx context.Context, query search.Query) ([]search.Result, error) {
			gotQuery = query
			return []search.Result{{Name: "Paracetamol", Source: search.SourceInventory, InStock: true}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines/search?q=para", nil)
	w := httptest.NewRecorder()
	MedicineSearch(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "para", gotQuery.Term)
	require.Nil(t, gotQuery.PharmacyID)
	require.Contains(t, w.Body.String(), "Paracetamol")
}

func TestMedicineSearchDependencyFailure(t *testing.T) {
	svc := &stubSearchService{
		searchFn: func(ctx context.Context, query search.Query) ([]search.Result, error) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "medicine search failed")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines/search?q=para", nil)
	w := httptest.NewRecorder()
	MedicineSearch(svc, nil).ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthReady(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	HealthReady(&stubPinger{}, &stubPinger{}, nil).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ready")
}

func TestHealthReadyDegraded(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	HealthReady(&stubPinger{}, &stubPinger{err: errors.New("conn refused")}, nil).ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "dependency unavailable")
}
