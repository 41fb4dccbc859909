package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeExpiredStockRepo struct {
	items      []models.InventoryItem
	listErr    error
	zeroErrFor map[uuid.UUID]error
	zeroed     []uuid.UUID
	lastCutoff time.Time
}

func (f *fakeExpiredStockRepo) ListExpired(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error) {
	f.lastCutoff = cutoff
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeExpiredStockRepo) ZeroStockByID(ctx context.Context, itemID uuid.UUID) error {
	if err, ok := f.zeroErrFor[itemID]; ok {
		return err
	}
	f.zeroed = append(f.zeroed, itemID)
	return nil
}

func expiredItem() models.InventoryItem {
	return models.InventoryItem{
		ID:          uuid.New(),
		PharmacyID:  uuid.New(),
		Name:        "Amoxicillin",
		BatchNumber: "AMX-001",
		Quantity:    12,
	}
}

func newExpiredStockJob(t *testing.T, repo *fakeExpiredStockRepo) Job {
	t.Helper()
	job, err := NewExpiredStockJob(ExpiredStockJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Inventory: repo,
		Now:       func() time.Time { return time.Date(2025, 8, 20, 9, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return job
}

func TestExpiredStockJobZeroesAllBatches(t *testing.T) {
	first, second := expiredItem(), expiredItem()
	repo := &fakeExpiredStockRepo{items: []models.InventoryItem{first, second}}

	job := newExpiredStockJob(t, repo)
	require.NoError(t, job.Run(context.Background()))

	require.Equal(t, []uuid.UUID{first.ID, second.ID}, repo.zeroed)
	require.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), repo.lastCutoff)
}

func TestExpiredStockJobContinuesPastFailures(t *testing.T) {
	first, second, third := expiredItem(), expiredItem(), expiredItem()
	repo := &fakeExpiredStockRepo{
		items:      []models.InventoryItem{first, second, third},
		zeroErrFor: map[uuid.UUID]error{second.ID: errors.New("deadlock")},
	}

	job := newExpiredStockJob(t, repo)
	err := job.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), second.ID.String())

	// first and third still swept
	require.Equal(t, []uuid.UUID{first.ID, third.ID}, repo.zeroed)
}

func TestExpiredStockJobNoExpiredBatches(t *testing.T) {
	repo := &fakeExpiredStockRepo{}
	job := newExpiredStockJob(t, repo)
	require.NoError(t, job.Run(context.Background()))
	require.Empty(t, repo.zeroed)
}

func TestExpiredStockJobListFailure(t *testing.T) {
	repo := &fakeExpiredStockRepo{listErr: errors.New("db down")}
	job := newExpiredStockJob(t, repo)
	require.Error(t, job.Run(context.Background()))
}
