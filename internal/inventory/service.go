package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes pharmacy inventory management operations.
type Service interface {
	AddItem(ctx context.Context, pharmacyID uuid.UUID, input AddItemInput) (*ItemDTO, error)
	ListItems(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*ItemListResult, error)
	UpdateStock(ctx context.Context, pharmacyID uuid.UUID, billItems []StockDecrement) (int, error)
	LowStockItems(ctx context.Context, pharmacyID uuid.UUID) ([]ItemDTO, error)
}

// AddItemInput holds the validated payload to stock a new batch.
type AddItemInput struct {
	Name              string
	Manufacturer      string
	BatchNumber       string
	ExpiryDate        *time.Time
	Quantity          int
	UnitPrice         decimal.Decimal
	Category          string
	MinStockThreshold *int
}

// ItemDTO is the public shape of an inventory row.
type ItemDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Manufacturer      string          `json:"manufacturer"`
	BatchNumber       string          `json:"batch_number"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Category          string          `json:"category"`
	MinStockThreshold int             `json:"min_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
}

// StockDecrement is one bill line applied against on-hand stock.
type StockDecrement struct {
	ItemID   uuid.UUID
	Quantity int
}

// ItemListResult is one page of inventory rows.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type itemStore interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, pharmacyID, itemID uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, pharmacyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error)
	DecrementStock(ctx context.Context, pharmacyID, itemID uuid.UUID, qty int) (bool, error)
	ListLowStock(ctx context.Context, pharmacyID uuid.UUID) ([]models.InventoryItem, error)
}

type service struct {
	repo itemStore
}

// NewService constructs an inventory service instance.
func NewService(repo itemStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddItem(ctx context.Context, pharmacyID uuid.UUID, input AddItemInput) (*ItemDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	item := &models.InventoryItem{
		PharmacyID:        pharmacyID,
		Name:              name,
		Manufacturer:      strings.TrimSpace(input.Manufacturer),
		BatchNumber:       strings.TrimSpace(input.BatchNumber),
		ExpiryDate:        input.ExpiryDate,
		Quantity:          input.Quantity,
		UnitPrice:         input.UnitPrice,
		Category:          strings.TrimSpace(input.Category),
		MinStockThreshold: 10,
	}
	if input.MinStockThreshold != nil && *input.MinStockThreshold >= 0 {
		item.MinStockThreshold = *input.MinStockThreshold
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	dto := toItemDTO(*created)
	return &dto, nil
}

func (s *service) ListItems(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*ItemListResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, pharmacyID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}

	result := &ItemListResult{Items: make([]ItemDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Items = append(result.Items, toItemDTO(row))
	}
	return result, nil
}

// UpdateStock applies a bill's line items against stock, one conditional
// decrement per item. The where-clause guard keeps quantities from crossing
// zero under concurrent sales.
func (s *service) UpdateStock(ctx context.Context, pharmacyID uuid.UUID, billItems []StockDecrement) (int, error) {
	if pharmacyID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	if len(billItems) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one bill item required")
	}

	updated := 0
	for _, line := range billItems {
		if line.Quantity <= 0 {
			return updated, pkgerrors.New(pkgerrors.CodeValidation, "bill item quantity must be positive").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}

		applied, err := s.repo.DecrementStock(ctx, pharmacyID, line.ItemID, line.Quantity)
		if err != nil {
			return updated, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update stock")
		}
		if !applied {
			if _, findErr := s.repo.FindByID(ctx, pharmacyID, line.ItemID); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return updated, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
						WithDetails(map[string]any{"item_id": line.ItemID})
				}
				return updated, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "load inventory item")
			}
			return updated, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		updated++
	}
	return updated, nil
}

func (s *service) LowStockItems(ctx context.Context, pharmacyID uuid.UUID) ([]ItemDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	rows, err := s.repo.ListLowStock(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	dtos := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toItemDTO(row))
	}
	return dtos, nil
}

func toItemDTO(item models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:                item.ID,
		Name:              item.Name,
		Manufacturer:      item.Manufacturer,
		BatchNumber:       item.BatchNumber,
		ExpiryDate:        item.ExpiryDate,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		Category:          item.Category,
		MinStockThreshold: item.MinStockThreshold,
		LowStock:          item.Quantity <= item.MinStockThreshold,
		CreatedAt:         item.CreatedAt,
	}
}
