package catalog

import (
	"context"
	"strings"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists shared medicine reference entries.
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

// Create inserts a new catalog entry. The unique index on lower(name) rejects duplicates.
func (r *Repository) Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

const searchQuery = `
SELECT *
FROM catalog_entries
WHERE to_tsvector('english',
        name || ' ' || generic_name || ' ' || category || ' ' || array_to_string(indications, ' '))
      @@ plainto_tsquery('english', @term)
   OR name ILIKE @pattern
ORDER BY ts_rank(
        to_tsvector('english',
            name || ' ' || generic_name || ' ' || category || ' ' || array_to_string(indications, ' ')),
        plainto_tsquery('english', @term)) DESC,
    lower(name) ASC
LIMIT @limit
`

// SearchByTerm runs full-text search over name, generic name, category and indications.
func (r *Repository) SearchByTerm(ctx context.Context, term string, limit int) ([]models.CatalogEntry, error) {
	term = strings.TrimSpace(term)
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Raw(searchQuery,
			map[string]any{"term": term, "pattern": "%" + term + "%", "limit": limit}).
		Scan(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

const indicationQuery = `
SELECT *
FROM catalog_entries
WHERE to_tsvector('english', array_to_string(indications, ' '))
      @@ plainto_tsquery('english', @term)
ORDER BY ts_rank(
        to_tsvector('english', array_to_string(indications, ' ')),
        plainto_tsquery('english', @term)) DESC,
    lower(name) ASC
LIMIT @limit
`

// SearchByIndication matches symptoms against the indications column only.
func (r *Repository) SearchByIndication(ctx context.Context, term string, limit int) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Raw(indicationQuery, map[string]any{"term": strings.TrimSpace(term), "limit": limit}).
		Scan(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the total catalog size.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CatalogEntry{}).Count(&count).Error
	return count, err
}
