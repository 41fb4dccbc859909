package billing

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryTxRepo is the slice of the inventory repository billing needs
// inside a sale transaction.
type InventoryTxRepo interface {
	FindByID(ctx context.Context, pharmacyID, itemID uuid.UUID) (*models.InventoryItem, error)
	DecrementStock(ctx context.Context, pharmacyID, itemID uuid.UUID, qty int) (bool, error)
}

type transactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	List(ctx context.Context, pharmacyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Transaction, error)
	FindByID(ctx context.Context, pharmacyID, txnID uuid.UUID) (*models.Transaction, error)
}

// TxTransactionStore is the slice of the repository a sale uses inside its
// transaction.
type TxTransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
}

// TransactionRepoFactory adapts a concrete repository into per-tx handles.
type TransactionRepoFactory func(tx *gorm.DB) TxTransactionStore

// Service records sales atomically against inventory.
type Service interface {
	RecordSale(ctx context.Context, pharmacyID uuid.UUID, input SaleInput) (*TransactionDTO, error)
	ListTransactions(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*TransactionListResult, error)
	GetTransaction(ctx context.Context, pharmacyID, txnID uuid.UUID) (*TransactionDTO, error)
}

// SaleInput holds the validated payload of a checkout.
type SaleInput struct {
	PatientName  string
	PatientPhone string
	Items        []SaleItemInput
	// ClientTotal is the total the frontend displayed. It is advisory only:
	// the recorded total is always recomputed from current prices, and a
	// mismatch rejects the sale.
	ClientTotal *decimal.Decimal
}

// SaleItemInput is one requested line.
type SaleItemInput struct {
	InventoryItemID uuid.UUID
	Quantity        int
}

// TransactionDTO is the public shape of a completed sale.
type TransactionDTO struct {
	ID           uuid.UUID       `json:"id"`
	PatientName  string          `json:"patient_name"`
	PatientPhone string          `json:"patient_phone"`
	Total        decimal.Decimal `json:"total"`
	Items        []LineItemDTO   `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineItemDTO is one sold line inside a transaction.
type LineItemDTO struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// TransactionListResult is one page of sales.
type TransactionListResult struct {
	Items      []TransactionDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// InventoryRepoFactory adapts a concrete repository into per-tx handles.
type InventoryRepoFactory func(tx *gorm.DB) InventoryTxRepo

type service struct {
	tx            txRunner
	txnRepo       transactionStore
	txnRepoForTx  TransactionRepoFactory
	inventoryRepo InventoryRepoFactory
}

// NewService constructs a billing service instance.
func NewService(
	tx txRunner,
	txnRepo transactionStore,
	txnRepoForTx TransactionRepoFactory,
	inventoryRepo InventoryRepoFactory,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if txnRepo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if txnRepoForTx == nil {
		return nil, fmt.Errorf("transaction repository factory required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository factory required")
	}
	return &service{
		tx:            tx,
		txnRepo:       txnRepo,
		txnRepoForTx:  txnRepoForTx,
		inventoryRepo: inventoryRepo,
	}, nil
}

func (s *service) RecordSale(ctx context.Context, pharmacyID uuid.UUID, input SaleInput) (*TransactionDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a sale needs at least one item")
	}
	for i, line := range input.Items {
		if line.InventoryItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id required").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
	}

	var recorded *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.inventoryRepo(tx)

		total := decimal.Zero
		lineItems := make([]models.TransactionLineItem, 0, len(input.Items))

		for _, line := range input.Items {
			item, err := invRepo.FindByID(ctx, pharmacyID, line.InventoryItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
						WithDetails(map[string]any{"inventory_item_id": line.InventoryItemID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
			}

			ok, err := invRepo.DecrementStock(ctx, pharmacyID, line.InventoryItemID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"inventory_item_id": line.InventoryItemID, "name": item.Name})
			}

			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			lineItems = append(lineItems, models.TransactionLineItem{
				InventoryItemID: item.ID,
				Name:            item.Name,
				Quantity:        line.Quantity,
				UnitPrice:       item.UnitPrice,
			})
		}

		if input.ClientTotal != nil && !input.ClientTotal.Equal(total) {
			return pkgerrors.New(pkgerrors.CodeValidation, "total does not match current prices").
				WithDetails(map[string]any{
					"client_total":   input.ClientTotal.StringFixed(2),
					"computed_total": total.StringFixed(2),
				})
		}

		txn := &models.Transaction{
			PharmacyID:   pharmacyID,
			PatientName:  strings.TrimSpace(input.PatientName),
			PatientPhone: strings.TrimSpace(input.PatientPhone),
			Total:        total,
			Items:        lineItems,
		}
		created, err := s.txnRepoForTx(tx).Create(ctx, txn)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
		}
		recorded = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sale transaction failed")
	}

	dto := toTransactionDTO(*recorded)
	return &dto, nil
}

func (s *service) ListTransactions(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*TransactionListResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.txnRepo.List(ctx, pharmacyID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}

	result := &TransactionListResult{Items: make([]TransactionDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Items = append(result.Items, toTransactionDTO(row))
	}
	return result, nil
}

func (s *service) GetTransaction(ctx context.Context, pharmacyID, txnID uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.txnRepo.FindByID(ctx, pharmacyID, txnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}
	dto := toTransactionDTO(*txn)
	return &dto, nil
}

func toTransactionDTO(txn models.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:           txn.ID,
		PatientName:  txn.PatientName,
		PatientPhone: txn.PatientPhone,
		Total:        txn.Total,
		Items:        make([]LineItemDTO, 0, len(txn.Items)),
		CreatedAt:    txn.CreatedAt,
	}
	for _, line := range txn.Items {
		dto.Items = append(dto.Items, LineItemDTO{
			InventoryItemID: line.InventoryItemID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return dto
}
