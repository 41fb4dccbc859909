package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLineItem snapshots one sold medicine inside a transaction.
type TransactionLineItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID   uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"column:inventory_item_id;type:uuid;not null"`
	Name            string          `gorm:"column:name;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}
