package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CatalogEntry is the shared, tenant-independent medicine reference record.
type CatalogEntry struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string         `gorm:"column:name;not null;uniqueIndex"`
	GenericName          string         `gorm:"column:generic_name;not null"`
	Category             string         `gorm:"column:category;not null"`
	Indications          pq.StringArray `gorm:"column:indications;type:text[];not null;default:ARRAY[]::text[]"`
	PrescriptionRequired bool           `gorm:"column:prescription_required;not null;default:false"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
