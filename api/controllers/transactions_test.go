package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anuragcr07/pharmacare-backend/internal/billing"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubBillingService struct {
	recordFn func(ctx context.Context, pharmacyID uuid.UUID, input billing.SaleInput) (*billing.TransactionDTO, error)
	listFn   func(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*billing.TransactionListResult, error)
	getFn    func(ctx context.Context, pharmacyID, txnID uuid.UUID) (*billing.TransactionDTO, error)
}

func (s *stubBillingService) RecordSale(ctx context.Context, pharmacyID uuid.UUID, input billing.SaleInput) (*billing.TransactionDTO, error) {
	return s.recordFn(ctx, pharmacyID, input)
}

func (s *stubBillingService) ListTransactions(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*billing.TransactionListResult, error) {
	return s.listFn(ctx, pharmacyID, params)
}

func (s *stubBillingService) GetTransaction(ctx context.Context, pharmacyID, txnID uuid.UUID) (*billing.TransactionDTO, error) {
	return s.getFn(ctx, pharmacyID, txnID)
}

func TestTransactionCreate(t *testing.T) {
	itemID := uuid.New()
	var gotInput billing.SaleInput
	svc := &stubBillingService{
		recordFn: func(ctx context.Context, pharmacyID uuid.UUID, input billing.SaleInput) (*billing.TransactionDTO, error) {
			gotInput = input
			return &billing.TransactionDTO{ID: uuid.New(), Total: decimal.RequireFromString("18.00")}, nil
		},
	}

	req := tenantRequest(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"patient_name":  "Ravi Kumar",
		"patient_phone": "9876543210",
		"items": []map[string]any{
			{"inventory_item_id": itemID.String(), "quantity": 3},
		},
		"total": "18.00",
	})
	w := httptest.NewRecorder()
	TransactionCreate(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, gotInput.Items, 1)
	require.Equal(t, itemID, gotInput.Items[0].InventoryItemID)
	require.Equal(t, 3, gotInput.Items[0].Quantity)
	require.NotNil(t, gotInput.ClientTotal)
	require.True(t, gotInput.ClientTotal.Equal(decimal.RequireFromString("18.00")))
}

func TestTransactionCreateRejectsEmptyItems(t *testing.T) {
	svc := &stubBillingService{}
	req := tenantRequest(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"patient_name":  "Ravi Kumar",
		"patient_phone": "9876543210",
		"items":         []map[string]any{},
	})
	w := httptest.NewRecorder()
	TransactionCreate(svc, nil).ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionGetInvalidID(t *testing.T) {
	svc := &stubBillingService{}

	r := chi.NewRouter()
	r.Get("/api/v1/transactions/{id}", TransactionGet(svc, nil))

	req := tenantRequest(t, http.MethodGet, "/api/v1/transactions/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionGetNotFound(t *testing.T) {
	svc := &stubBillingService{
		getFn: func(ctx context.Context, pharmacyID, txnID uuid.UUID) (*billing.TransactionDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		},
	}

	r := chi.NewRouter()
	r.Get("/api/v1/transactions/{id}", TransactionGet(svc, nil))

	req := tenantRequest(t, http.MethodGet, "/api/v1/transactions/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionListForwardsCursor(t *testing.T) {
	var gotParams pagination.Params
	svc := &stubBillingService{
		listFn: func(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*billing.TransactionListResult, error) {
			gotParams = params
			return &billing.TransactionListResult{Items: []billing.TransactionDTO{}, NextCursor: "next"}, nil
		},
	}

	req := tenantRequest(t, http.MethodGet, "/api/v1/transactions?limit=5&cursor=cur", nil)
	w := httptest.NewRecorder()
	TransactionList(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 5, gotParams.Limit)
	require.Equal(t, "cur", gotParams.Cursor)

	var envelope struct {
		Data struct {
			NextCursor string `json:"next_cursor"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "next", envelope.Data.NextCursor)
}
