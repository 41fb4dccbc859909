package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable record of a completed sale.
type Transaction struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID   uuid.UUID             `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	PatientName  string                `gorm:"column:patient_name;not null"`
	PatientPhone string                `gorm:"column:patient_phone;not null"`
	Total        decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	Items        []TransactionLineItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
