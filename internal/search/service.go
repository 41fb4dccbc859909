package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source identifies where a merged result row came from.
type Source string

const (
	SourceInventory Source = "inventory"
	SourceCatalog   Source = "catalog"
)

// Result is one merged medicine row. Inventory hits carry stock and price,
// catalog hits carry reference data only.
type Result struct {
	Source               Source           `json:"source"`
	Name                 string           `json:"name"`
	GenericName          string           `json:"generic_name,omitempty"`
	Manufacturer         string           `json:"manufacturer,omitempty"`
	Category             string           `json:"category"`
	Indications          []string         `json:"indications,omitempty"`
	PrescriptionRequired bool             `json:"prescription_required,omitempty"`
	InStock              bool             `json:"in_stock"`
	Quantity             int              `json:"quantity,omitempty"`
	UnitPrice            *decimal.Decimal `json:"unit_price,omitempty"`
	InventoryItemID      *uuid.UUID       `json:"inventory_item_id,omitempty"`
	CatalogEntryID       *uuid.UUID       `json:"catalog_entry_id,omitempty"`
}

// Query captures one search request.
type Query struct {
	Term       string
	PharmacyID *uuid.UUID
	Limit      int
}

// Service merges inventory stock and the reference catalog into one ranked list.
type Service interface {
	Search(ctx context.Context, query Query) ([]Result, error)
}

type inventorySearcher interface {
	SearchByTerm(ctx context.Context, term string, pharmacyID *uuid.UUID, limit int) ([]models.InventoryItem, error)
}

type catalogSearcher interface {
	SearchByTerm(ctx context.Context, term string, limit int) ([]models.CatalogEntry, error)
}

type service struct {
	inventory inventorySearcher
	catalog   catalogSearcher
	limit     int
}

// NewService constructs the merge engine.
func NewService(inventory inventorySearcher, catalog catalogSearcher, cfg config.SearchConfig) (Service, error) {
	if inventory == nil {
		return nil, fmt.Errorf("inventory searcher required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog searcher required")
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = 20
	}
	return &service{inventory: inventory, catalog: catalog, limit: limit}, nil
}

// Search runs both lookups concurrently and merges them. Inventory rows win on
// name collisions so callers always see local stock over reference data. A
// failure in either leg fails the whole search rather than returning a
// silently partial list.
func (s *service) Search(ctx context.Context, query Query) ([]Result, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return []Result{}, nil
	}

	limit := query.Limit
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	var (
		items   []models.InventoryItem
		entries []models.CatalogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.inventory.SearchByTerm(gctx, term, query.PharmacyID, limit)
		if err != nil {
			return fmt.Errorf("inventory lookup: %w", err)
		}
		items = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.catalog.SearchByTerm(gctx, term, limit)
		if err != nil {
			return fmt.Errorf("catalog lookup: %w", err)
		}
		entries = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "medicine search failed")
	}

	return merge(items, entries, limit), nil
}

// merge walks inventory hits first, then folds catalog entries in by
// lowercased name. A catalog entry matching an inventory row enriches it with
// reference fields; unmatched entries are appended. Input order is preserved
// in both halves, so the stores' ranking survives the merge.
func merge(items []models.InventoryItem, entries []models.CatalogEntry, limit int) []Result {
	results := make([]Result, 0, len(items)+len(entries))
	seen := make(map[string]int, len(items))

	for _, item := range items {
		key := normalizeName(item.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = len(results)
		results = append(results, inventoryResult(item))
	}

	for _, entry := range entries {
		key := normalizeName(entry.Name)
		if idx, dup := seen[key]; dup {
			enrich(&results[idx], entry)
			continue
		}
		seen[key] = len(results)
		results = append(results, catalogResult(entry))
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Inventory rows carry no reference data of their own; the placeholder holds
// until a catalog hit folds the real values in.
const unknownField = "unknown"

func inventoryResult(item models.InventoryItem) Result {
	price := item.UnitPrice
	id := item.ID
	return Result{
		Source:          SourceInventory,
		Name:            item.Name,
		GenericName:     unknownField,
		Manufacturer:    item.Manufacturer,
		Category:        item.Category,
		Indications:     []string{unknownField},
		InStock:         item.Quantity > 0,
		Quantity:        item.Quantity,
		UnitPrice:       &price,
		InventoryItemID: &id,
	}
}

// enrich copies catalog reference fields onto an inventory-seeded row.
func enrich(result *Result, entry models.CatalogEntry) {
	id := entry.ID
	result.GenericName = entry.GenericName
	result.Indications = []string(entry.Indications)
	result.PrescriptionRequired = entry.PrescriptionRequired
	result.CatalogEntryID = &id
}

func catalogResult(entry models.CatalogEntry) Result {
	id := entry.ID
	return Result{
		Source:               SourceCatalog,
		Name:                 entry.Name,
		GenericName:          entry.GenericName,
		Category:             entry.Category,
		Indications:          []string(entry.Indications),
		PrescriptionRequired: entry.PrescriptionRequired,
		InStock:              false,
		CatalogEntryID:       &id,
	}
}
