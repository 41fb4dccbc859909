package stats

import (
	"context"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs aggregate queries over recorded sales.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RevenueSince sums transaction totals recorded at or after the cutoff.
func (r *Repository) RevenueSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total), 0) AS revenue
		     FROM transactions
		     WHERE pharmacy_id = ? AND created_at >= ?`, pharmacyID, since).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

// DailyRevenueRow is one day's bucket as stored.
type DailyRevenueRow struct {
	Day     time.Time
	Revenue decimal.Decimal
	Sales   int64
}

// DailyRevenue groups revenue per calendar day between the bounds.
func (r *Repository) DailyRevenue(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]DailyRevenueRow, error) {
	var rows []DailyRevenueRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT date_trunc('day', created_at) AS day,
		            COALESCE(SUM(total), 0) AS revenue,
		            COUNT(*) AS sales
		     FROM transactions
		     WHERE pharmacy_id = ? AND created_at >= ? AND created_at < ?
		     GROUP BY 1
		     ORDER BY 1 ASC`, pharmacyID, from, to).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentTransactions returns the latest n sales with their line items.
func (r *Repository) RecentTransactions(ctx context.Context, pharmacyID uuid.UUID, n int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&txns).
		Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// CountTransactionsSince counts sales recorded at or after the cutoff.
func (r *Repository) CountTransactionsSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("pharmacy_id = ? AND created_at >= ?", pharmacyID, since).
		Count(&count).
		Error
	return count, err
}

// CountDistinctPatientsSince counts unique patient phones seen at or after the cutoff.
func (r *Repository) CountDistinctPatientsSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (int64, error) {
	var row struct {
		Patients int64
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(DISTINCT patient_phone) AS patients
		     FROM transactions
		     WHERE pharmacy_id = ? AND created_at >= ? AND patient_phone <> ''`, pharmacyID, since).
		Scan(&row).
		Error
	return row.Patients, err
}
