package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"go.uber.org/multierr"
)

// SeedEntry is one row of the seed file format.
type SeedEntry struct {
	Name                 string   `json:"name"`
	GenericName          string   `json:"generic_name"`
	Category             string   `json:"category"`
	Indications          []string `json:"indications"`
	PrescriptionRequired bool     `json:"prescription_required"`
}

// SeedResult summarizes a seed run.
type SeedResult struct {
	Inserted int
	Skipped  int
}

// Seed loads catalog entries from a JSON array. Names already in the catalog
// are skipped silently so reseeding is safe; other per-row failures are
// collected and returned combined.
func Seed(ctx context.Context, svc Service, r io.Reader, logg *logger.Logger) (*SeedResult, error) {
	var entries []SeedEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	result := &SeedResult{}
	var combined error
	for i, entry := range entries {
		_, err := svc.AddEntry(ctx, AddEntryInput{
			Name:                 entry.Name,
			GenericName:          entry.GenericName,
			Category:             entry.Category,
			Indications:          entry.Indications,
			PrescriptionRequired: entry.PrescriptionRequired,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
				result.Skipped++
				if logg != nil {
					logg.Info(logg.WithField(ctx, "medicine", entry.Name), "catalog.seed.already_present")
				}
				continue
			}
			result.Skipped++
			combined = multierr.Append(combined, fmt.Errorf("row %d (%s): %w", i, entry.Name, err))
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "medicine", entry.Name), "catalog.seed.row_skipped")
			}
			continue
		}
		result.Inserted++
	}
	return result, combined
}
