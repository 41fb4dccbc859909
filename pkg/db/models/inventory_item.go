package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked medicine batch owned by a pharmacy.
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID        uuid.UUID       `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	Name              string          `gorm:"column:name;not null"`
	Manufacturer      string          `gorm:"column:manufacturer;not null"`
	BatchNumber       string          `gorm:"column:batch_number;not null"`
	ExpiryDate        *time.Time      `gorm:"column:expiry_date;type:date"`
	Quantity          int             `gorm:"column:quantity;not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Category          string          `gorm:"column:category;not null"`
	MinStockThreshold int             `gorm:"column:min_stock_threshold;not null;default:10"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
