package patients

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultListLimit = 200

type patientStore interface {
	List(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]PatientRow, error)
}

// PatientDTO is the public shape of a derived patient record.
type PatientDTO struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	VisitCount  int64     `json:"visit_count"`
	LastVisitAt time.Time `json:"last_visit_at"`
	TotalSpent  string    `json:"total_spent"`
}

// Service lists the patients a pharmacy has served.
type Service interface {
	ListPatients(ctx context.Context, pharmacyID uuid.UUID) ([]PatientDTO, error)
}

type service struct {
	repo patientStore
	logg *logger.Logger
}

func NewService(repo patientStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("patient repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListPatients(ctx context.Context, pharmacyID uuid.UUID) ([]PatientDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	rows, err := s.repo.List(ctx, pharmacyID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list patients")
	}

	dtos := make([]PatientDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, PatientDTO{
			Name:        row.PatientName,
			Phone:       row.PatientPhone,
			VisitCount:  row.VisitCount,
			LastVisitAt: row.LastVisitAt,
			TotalSpent:  row.TotalSpent.StringFixed(2),
		})
	}
	return dtos, nil
}
