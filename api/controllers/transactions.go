package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/api/validators"
	"github.com/Anuragcr07/pharmacare-backend/internal/billing"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleItemRequest struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,gt=0"`
}

type recordSaleRequest struct {
	PatientName  string            `json:"patient_name" validate:"required,max=200"`
	PatientPhone string            `json:"patient_phone" validate:"required,max=20"`
	Items        []saleItemRequest `json:"items" validate:"required,min=1,dive"`
	Total        *decimal.Decimal  `json:"total,omitempty"`
}

// TransactionCreate records a sale and decrements stock atomically.
func TransactionCreate(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recordSaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]billing.SaleItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, billing.SaleItemInput{
				InventoryItemID: item.InventoryItemID,
				Quantity:        item.Quantity,
			})
		}

		txn, err := svc.RecordSale(r.Context(), tenant, billing.SaleInput{
			PatientName:  body.PatientName,
			PatientPhone: body.PatientPhone,
			Items:        items,
			ClientTotal:  body.Total,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// TransactionList returns a page of the pharmacy's sales, newest first.
func TransactionList(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListTransactions(r.Context(), tenant, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TransactionGet returns one sale with its line items.
func TransactionGet(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txnID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			err := pkgerrors.New(pkgerrors.CodeValidation, "transaction id must be a uuid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.GetTransaction(r.Context(), tenant, txnID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}
