package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"github.com/Anuragcr07/pharmacare-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists inventory rows for a pharmacy.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new inventory row.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a single item scoped to its pharmacy.
func (r *Repository) FindByID(ctx context.Context, pharmacyID, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		First(&item, "id = ? AND pharmacy_id = ?", itemID, pharmacyID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns one page of items ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, pharmacyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchByTerm matches the term against name, manufacturer and category.
// A nil pharmacyID searches across all pharmacies.
func (r *Repository) SearchByTerm(ctx context.Context, term string, pharmacyID *uuid.UUID, limit int) ([]models.InventoryItem, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	q := r.db.WithContext(ctx).
		Where("name ILIKE ? OR manufacturer ILIKE ? OR category ILIKE ?", pattern, pattern, pattern).
		Order("lower(name) ASC, created_at ASC").
		Limit(limit)
	if pharmacyID != nil {
		q = q.Where("pharmacy_id = ?", *pharmacyID)
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DecrementStock subtracts qty while refusing to cross zero. The returned flag
// reports whether a row was actually updated.
func (r *Repository) DecrementStock(ctx context.Context, pharmacyID, itemID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND pharmacy_id = ? AND quantity >= ?", itemID, pharmacyID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListLowStock returns items at or below their configured threshold.
func (r *Repository) ListLowStock(ctx context.Context, pharmacyID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND quantity <= min_stock_threshold", pharmacyID).
		Order("quantity ASC, lower(name) ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListExpired returns stocked batches whose expiry date has passed the cutoff.
func (r *Repository) ListExpired(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ? AND quantity > 0", cutoff).
		Order("expiry_date ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ZeroStockByID clears the on-hand count of a single batch.
func (r *Repository) ZeroStockByID(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", 0).
		Error
}

// CountByPharmacy returns the number of distinct stocked items.
func (r *Repository) CountByPharmacy(ctx context.Context, pharmacyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("pharmacy_id = ?", pharmacyID).
		Count(&count).
		Error
	return count, err
}

// FindInStockByNames returns the pharmacy's items whose lowercased name is in
// the given set and that have stock on hand.
func (r *Repository) FindInStockByNames(ctx context.Context, pharmacyID uuid.UUID, names []string) ([]models.InventoryItem, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(name)))
	}

	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Where("lower(name) IN ?", lowered).
		Where("quantity > 0").
		Order("lower(name) ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
