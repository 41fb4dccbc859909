package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentSalesCount = 5

// Service aggregates sales and stock data into dashboard payloads.
type Service interface {
	Dashboard(ctx context.Context, pharmacyID uuid.UUID) (*DashboardDTO, error)
	Revenue(ctx context.Context, pharmacyID uuid.UUID) (*RevenueDTO, error)
}

// DashboardDTO is the headline view the frontend renders on login.
type DashboardDTO struct {
	TodayRevenue   decimal.Decimal  `json:"today_revenue"`
	TodaySales     int64            `json:"today_sales"`
	TodayPatients  int64            `json:"today_patients"`
	InventoryCount int64            `json:"inventory_count"`
	LowStockCount  int64            `json:"low_stock_count"`
	RecentSales    []RecentSaleDTO  `json:"recent_sales"`
	WeeklyRevenue  []DailyBucketDTO `json:"weekly_revenue"`
}

// RevenueDTO breaks revenue into the standard reporting windows.
type RevenueDTO struct {
	Today decimal.Decimal  `json:"today"`
	Week  decimal.Decimal  `json:"week"`
	Month decimal.Decimal  `json:"month"`
	Daily []DailyBucketDTO `json:"daily"`
}

// DailyBucketDTO is one zero-filled day of the trailing week.
type DailyBucketDTO struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int64           `json:"sales"`
}

// RecentSaleDTO is a compact recent transaction row.
type RecentSaleDTO struct {
	ID          uuid.UUID       `json:"id"`
	PatientName string          `json:"patient_name"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

type salesReader interface {
	RevenueSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (decimal.Decimal, error)
	DailyRevenue(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]DailyRevenueRow, error)
	RecentTransactions(ctx context.Context, pharmacyID uuid.UUID, n int) ([]models.Transaction, error)
	CountTransactionsSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (int64, error)
	CountDistinctPatientsSince(ctx context.Context, pharmacyID uuid.UUID, since time.Time) (int64, error)
}

type stockCounter interface {
	CountByPharmacy(ctx context.Context, pharmacyID uuid.UUID) (int64, error)
	ListLowStock(ctx context.Context, pharmacyID uuid.UUID) ([]models.InventoryItem, error)
}

type service struct {
	sales salesReader
	stock stockCounter
	now   func() time.Time
}

// NewService constructs a stats service instance.
func NewService(sales salesReader, stock stockCounter) (Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("sales reader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock counter required")
	}
	return &service{sales: sales, stock: stock, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context, pharmacyID uuid.UUID) (*DashboardDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	now := s.now()
	startOfDay := midnight(now)
	bucketStart := startOfDay.AddDate(0, 0, -6)

	dto := &DashboardDTO{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		revenue, err := s.sales.RevenueSince(gctx, pharmacyID, startOfDay)
		if err != nil {
			return fmt.Errorf("today revenue: %w", err)
		}
		dto.TodayRevenue = revenue
		return nil
	})
	g.Go(func() error {
		count, err := s.sales.CountTransactionsSince(gctx, pharmacyID, startOfDay)
		if err != nil {
			return fmt.Errorf("today sales: %w", err)
		}
		dto.TodaySales = count
		return nil
	})
	g.Go(func() error {
		patients, err := s.sales.CountDistinctPatientsSince(gctx, pharmacyID, startOfDay)
		if err != nil {
			return fmt.Errorf("today patients: %w", err)
		}
		dto.TodayPatients = patients
		return nil
	})
	g.Go(func() error {
		count, err := s.stock.CountByPharmacy(gctx, pharmacyID)
		if err != nil {
			return fmt.Errorf("inventory count: %w", err)
		}
		dto.InventoryCount = count
		return nil
	})
	g.Go(func() error {
		low, err := s.stock.ListLowStock(gctx, pharmacyID)
		if err != nil {
			return fmt.Errorf("low stock: %w", err)
		}
		dto.LowStockCount = int64(len(low))
		return nil
	})
	g.Go(func() error {
		recent, err := s.sales.RecentTransactions(gctx, pharmacyID, recentSalesCount)
		if err != nil {
			return fmt.Errorf("recent sales: %w", err)
		}
		dto.RecentSales = toRecentSales(recent)
		return nil
	})
	g.Go(func() error {
		rows, err := s.sales.DailyRevenue(gctx, pharmacyID, bucketStart, startOfDay.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("weekly revenue: %w", err)
		}
		dto.WeeklyRevenue = fillDailyBuckets(rows, bucketStart, 7)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build dashboard")
	}
	return dto, nil
}

func (s *service) Revenue(ctx context.Context, pharmacyID uuid.UUID) (*RevenueDTO, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	now := s.now()
	startOfDay := midnight(now)
	weekStart := isoWeekStart(now)
	monthStart := firstOfMonth(now)
	bucketStart := startOfDay.AddDate(0, 0, -6)

	dto := &RevenueDTO{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.sales.RevenueSince(gctx, pharmacyID, startOfDay)
		if err != nil {
			return err
		}
		dto.Today = v
		return nil
	})
	g.Go(func() error {
		v, err := s.sales.RevenueSince(gctx, pharmacyID, weekStart)
		if err != nil {
			return err
		}
		dto.Week = v
		return nil
	})
	g.Go(func() error {
		v, err := s.sales.RevenueSince(gctx, pharmacyID, monthStart)
		if err != nil {
			return err
		}
		dto.Month = v
		return nil
	})
	g.Go(func() error {
		rows, err := s.sales.DailyRevenue(gctx, pharmacyID, bucketStart, startOfDay.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		dto.Daily = fillDailyBuckets(rows, bucketStart, 7)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build revenue report")
	}
	return dto, nil
}

// midnight truncates to 00:00 on the server's local clock.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isoWeekStart returns the most recent Monday midnight.
func isoWeekStart(t time.Time) time.Time {
	day := midnight(t)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

// firstOfMonth returns the first of the current month at midnight.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// fillDailyBuckets maps sparse day rows into a dense window so charts never
// skip quiet days.
func fillDailyBuckets(rows []DailyRevenueRow, from time.Time, days int) []DailyBucketDTO {
	byDay := make(map[string]DailyRevenueRow, len(rows))
	for _, row := range rows {
		byDay[row.Day.In(from.Location()).Format("2006-01-02")] = row
	}

	buckets := make([]DailyBucketDTO, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		bucket := DailyBucketDTO{Day: day, Revenue: decimal.Zero}
		if row, ok := byDay[day]; ok {
			bucket.Revenue = row.Revenue
			bucket.Sales = row.Sales
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func toRecentSales(txns []models.Transaction) []RecentSaleDTO {
	out := make([]RecentSaleDTO, 0, len(txns))
	for _, txn := range txns {
		out = append(out, RecentSaleDTO{
			ID:          txn.ID,
			PatientName: txn.PatientName,
			Total:       txn.Total,
			ItemCount:   len(txn.Items),
			CreatedAt:   txn.CreatedAt,
		})
	}
	return out
}
