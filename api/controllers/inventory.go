package controllers

import (
	"net/http"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/api/validators"
	"github.com/Anuragcr07/pharmacare-backend/internal/inventory"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Manufacturer      string          `json:"manufacturer" validate:"required,max=200"`
	BatchNumber       string          `json:"batch_number" validate:"required,max=100"`
	ExpiryDate        *string         `json:"expiry_date,omitempty"`
	Quantity          int             `json:"quantity" validate:"gte=0"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"required"`
	Category          string          `json:"category" validate:"required,max=100"`
	MinStockThreshold *int            `json:"min_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

type billItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type updateStockRequest struct {
	BillItems []billItemRequest `json:"bill_items" validate:"required,min=1,dive"`
}

// InventoryList returns a page of the pharmacy's stock.
func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.ListItems(r.Context(), tenant, pagination.Params{
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

// InventoryAdd stocks a new batch.
func InventoryAdd(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var expiry *time.Time
		if body.ExpiryDate != nil && *body.ExpiryDate != "" {
			parsed, err := time.Parse("2006-01-02", *body.ExpiryDate)
			if err != nil {
				err := pkgerrors.New(pkgerrors.CodeValidation, "expiry_date must be YYYY-MM-DD")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			expiry = &parsed
		}

		item, err := svc.AddItem(r.Context(), tenant, inventory.AddItemInput{
			Name:              body.Name,
			Manufacturer:      body.Manufacturer,
			BatchNumber:       body.BatchNumber,
			ExpiryDate:        expiry,
			Quantity:          body.Quantity,
			UnitPrice:         body.UnitPrice,
			Category:          body.Category,
			MinStockThreshold: body.MinStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// InventoryUpdateStock applies a bill's line items against stock.
func InventoryUpdateStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		billItems := make([]inventory.StockDecrement, 0, len(body.BillItems))
		for _, line := range body.BillItems {
			billItems = append(billItems, inventory.StockDecrement{ItemID: line.ItemID, Quantity: line.Quantity})
		}

		updated, err := svc.UpdateStock(r.Context(), tenant, billItems)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated_count": updated})
	}
}

// InventoryLowStock lists items at or under their reorder threshold.
func InventoryLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := pharmacyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.LowStockItems(r.Context(), tenant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
