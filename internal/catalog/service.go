package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Service exposes the shared medicine reference catalog.
type Service interface {
	AddEntry(ctx context.Context, input AddEntryInput) (*EntryDTO, error)
	Search(ctx context.Context, term string, limit int) ([]EntryDTO, error)
}

// AddEntryInput holds the validated payload to register a reference medicine.
type AddEntryInput struct {
	Name                 string
	GenericName          string
	Category             string
	Indications          []string
	PrescriptionRequired bool
}

// EntryDTO is the public shape of a catalog row.
type EntryDTO struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	GenericName          string    `json:"generic_name"`
	Category             string    `json:"category"`
	Indications          []string  `json:"indications"`
	PrescriptionRequired bool      `json:"prescription_required"`
	CreatedAt            time.Time `json:"created_at"`
}

type entryStore interface {
	Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error)
	SearchByTerm(ctx context.Context, term string, limit int) ([]models.CatalogEntry, error)
}

type service struct {
	repo entryStore
}

// NewService constructs a catalog service instance.
func NewService(repo entryStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddEntry(ctx context.Context, input AddEntryInput) (*EntryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine name required")
	}

	indications := make(pq.StringArray, 0, len(input.Indications))
	for _, ind := range input.Indications {
		if trimmed := strings.TrimSpace(ind); trimmed != "" {
			indications = append(indications, trimmed)
		}
	}

	entry := &models.CatalogEntry{
		Name:                 name,
		GenericName:          strings.TrimSpace(input.GenericName),
		Category:             strings.TrimSpace(input.Category),
		Indications:          indications,
		PrescriptionRequired: input.PrescriptionRequired,
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "medicine already in catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create catalog entry")
	}
	dto := toEntryDTO(*created)
	return &dto, nil
}

func (s *service) Search(ctx context.Context, term string, limit int) ([]EntryDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []EntryDTO{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.repo.SearchByTerm(ctx, term, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search catalog")
	}
	dtos := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toEntryDTO(row))
	}
	return dtos, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func toEntryDTO(entry models.CatalogEntry) EntryDTO {
	return EntryDTO{
		ID:                   entry.ID,
		Name:                 entry.Name,
		GenericName:          entry.GenericName,
		Category:             entry.Category,
		Indications:          []string(entry.Indications),
		PrescriptionRequired: entry.PrescriptionRequired,
		CreatedAt:            entry.CreatedAt,
	}
}
