package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type expiredStockRepository interface {
	ListExpired(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error)
	ZeroStockByID(ctx context.Context, itemID uuid.UUID) error
}

// ExpiredStockJobParams configure the expiry sweep.
type ExpiredStockJobParams struct {
	Logger    *logger.Logger
	Inventory expiredStockRepository
	Now       func() time.Time
}

type expiredStockJob struct {
	logg      *logger.Logger
	inventory expiredStockRepository
	now       func() time.Time
}

// NewExpiredStockJob builds the daily job that zeroes stock on expired batches.
func NewExpiredStockJob(params ExpiredStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &expiredStockJob{logg: params.Logger, inventory: params.Inventory, now: now}, nil
}

func (j *expiredStockJob) Name() string { return "expired-stock-sweep" }

// Run zeroes every batch whose expiry date is before the start of today.
// Failures on individual items do not stop the sweep.
func (j *expiredStockJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	items, err := j.inventory.ListExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list expired batches: %w", err)
	}
	if len(items) == 0 {
		j.logg.Info(ctx, "no expired batches found")
		return nil
	}

	var errs error
	swept := 0
	for _, item := range items {
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":     item.ID.String(),
			"pharmacy_id": item.PharmacyID.String(),
			"batch":       item.BatchNumber,
		})
		if err := j.inventory.ZeroStockByID(ctx, item.ID); err != nil {
			j.logg.Error(itemCtx, "failed to zero expired batch", err)
			errs = multierr.Append(errs, fmt.Errorf("zero stock for %s: %w", item.ID, err))
			continue
		}
		j.logg.Info(itemCtx, "expired batch zeroed")
		swept++
	}

	j.logg.Info(j.logg.WithField(ctx, "swept", swept), "expiry sweep finished")
	return errs
}
