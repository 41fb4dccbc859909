package patients

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubPatientStore struct {
	rows       []PatientRow
	err        error
	lastTenant uuid.UUID
	lastLimit  int
}

func (s *stubPatientStore) List(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]PatientRow, error) {
	s.lastTenant = pharmacyID
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func TestListPatients(t *testing.T) {
	lastVisit := time.Date(2025, 8, 19, 11, 0, 0, 0, time.UTC)
	store := &stubPatientStore{rows: []PatientRow{
		{
			PatientName:  "Ravi Kumar",
			PatientPhone: "9876543210",
			VisitCount:   3,
			LastVisitAt:  lastVisit,
			TotalSpent:   decimal.RequireFromString("142.50"),
		},
	}}
	svc, err := NewService(store, nil)
	require.NoError(t, err)

	pharmacyID := uuid.New()
	patients, err := svc.ListPatients(context.Background(), pharmacyID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.Equal(t, "Ravi Kumar", patients[0].Name)
	require.Equal(t, "9876543210", patients[0].Phone)
	require.Equal(t, int64(3), patients[0].VisitCount)
	require.Equal(t, "142.50", patients[0].TotalSpent)
	require.Equal(t, pharmacyID, store.lastTenant)
	require.Equal(t, defaultListLimit, store.lastLimit)
}

func TestListPatientsRequiresPharmacy(t *testing.T) {
	svc, err := NewService(&stubPatientStore{}, nil)
	require.NoError(t, err)

	_, err = svc.ListPatients(context.Background(), uuid.Nil)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListPatientsEmpty(t *testing.T) {
	svc, err := NewService(&stubPatientStore{}, nil)
	require.NoError(t, err)

	patients, err := svc.ListPatients(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, patients)
	require.Empty(t, patients)
}
