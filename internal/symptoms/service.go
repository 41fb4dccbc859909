package symptoms

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	maxSymptomLen  = 500
	candidateLimit = 25
)

type catalogSearcher interface {
	SearchByIndication(ctx context.Context, term string, limit int) ([]models.CatalogEntry, error)
}

type stockLookup interface {
	FindInStockByNames(ctx context.Context, pharmacyID uuid.UUID, names []string) ([]models.InventoryItem, error)
}

// Suggestion is a catalog match that the pharmacy can actually dispense.
type Suggestion struct {
	Name                 string     `json:"name"`
	GenericName          string     `json:"generic_name"`
	Category             string     `json:"category"`
	Indications          []string   `json:"indications"`
	PrescriptionRequired bool       `json:"prescription_required"`
	InStock              bool       `json:"in_stock"`
	Quantity             int        `json:"quantity"`
	UnitPrice            *string    `json:"unit_price,omitempty"`
	InventoryItemID      *uuid.UUID `json:"inventory_item_id,omitempty"`
}

// AnalysisResult bundles the suggestions for one symptom query.
type AnalysisResult struct {
	Symptoms    string       `json:"symptoms"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Service maps free-text symptoms to in-stock medicines.
type Service interface {
	Analyze(ctx context.Context, pharmacyID uuid.UUID, symptoms string) (*AnalysisResult, error)
}

type service struct {
	catalog catalogSearcher
	stock   stockLookup
	logg    *logger.Logger
}

func NewService(catalog catalogSearcher, stock stockLookup, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog searcher required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock lookup required")
	}
	return &service{catalog: catalog, stock: stock, logg: logg}, nil
}

// Analyze runs the symptom text through the catalog indication index, then
// joins the matches against the pharmacy's in-stock items on lowercased name.
// Catalog matches with no stock are still returned, flagged out of stock.
// truncateRunes caps the input at n runes so a multibyte character is never
// cut mid-sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func (s *service) Analyze(ctx context.Context, pharmacyID uuid.UUID, symptoms string) (*AnalysisResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	trimmed := strings.TrimSpace(symptoms)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "symptoms required")
	}
	trimmed = truncateRunes(trimmed, maxSymptomLen)

	entries, err := s.catalog.SearchByIndication(ctx, trimmed, candidateLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search indications")
	}
	if len(entries) == 0 {
		return &AnalysisResult{Symptoms: trimmed, Suggestions: []Suggestion{}}, nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}

	items, err := s.stock.FindInStockByNames(ctx, pharmacyID, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check stock")
	}

	stockByName := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		stockByName[mergeKey(item.Name)] = item
	}

	suggestions := make([]Suggestion, 0, len(entries))
	for _, entry := range entries {
		sg := Suggestion{
			Name:                 entry.Name,
			GenericName:          entry.GenericName,
			Category:             entry.Category,
			Indications:          []string(entry.Indications),
			PrescriptionRequired: entry.PrescriptionRequired,
		}
		if item, ok := stockByName[mergeKey(entry.Name)]; ok {
			price := item.UnitPrice.StringFixed(2)
			itemID := item.ID
			sg.InStock = true
			sg.Quantity = item.Quantity
			sg.UnitPrice = &price
			sg.InventoryItemID = &itemID
		}
		suggestions = append(suggestions, sg)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"matches":  len(entries),
			"in_stock": len(items),
		}), "symptoms.analyze.completed")
	}
	return &AnalysisResult{Symptoms: trimmed, Suggestions: suggestions}, nil
}

func mergeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
