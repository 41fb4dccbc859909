package patients

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository derives patient rows from recorded transactions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PatientRow is one distinct patient aggregated from a pharmacy's sales.
type PatientRow struct {
	PatientName  string          `gorm:"column:patient_name"`
	PatientPhone string          `gorm:"column:patient_phone"`
	VisitCount   int64           `gorm:"column:visit_count"`
	LastVisitAt  time.Time       `gorm:"column:last_visit_at"`
	TotalSpent   decimal.Decimal `gorm:"column:total_spent"`
}

const patientsQuery = `
SELECT
    (array_agg(patient_name ORDER BY created_at DESC))[1] AS patient_name,
    patient_phone,
    COUNT(*)                                              AS visit_count,
    MAX(created_at)                                       AS last_visit_at,
    COALESCE(SUM(total), 0)                               AS total_spent
FROM transactions
WHERE pharmacy_id = @pharmacy_id
  AND patient_phone <> ''
GROUP BY patient_phone
ORDER BY last_visit_at DESC
LIMIT @limit`

// List returns the pharmacy's distinct patients keyed by phone number,
// most recently seen first.
func (r *Repository) List(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]PatientRow, error) {
	var rows []PatientRow
	err := r.db.WithContext(ctx).
		Raw(patientsQuery, map[string]any{"pharmacy_id": pharmacyID, "limit": limit}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
