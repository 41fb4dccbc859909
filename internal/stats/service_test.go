package stats

import (
	"context"
	"testing"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type saleRecord struct {
	total        decimal.Decimal
	patientPhone string
	createdAt    time.Time
}

type stubSalesReader struct {
	sales  []saleRecord
	recent []models.Transaction
}

func (s *stubSalesReader) RevenueSince(_ context.Context, _ uuid.UUID, since time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, sale := range s.sales {
		if !sale.createdAt.Before(since) {
			sum = sum.Add(sale.total)
		}
	}
	return sum, nil
}

func (s *stubSalesReader) DailyRevenue(_ context.Context, _ uuid.UUID, from, to time.Time) ([]DailyRevenueRow, error) {
	byDay := make(map[time.Time]*DailyRevenueRow)
	for _, sale := range s.sales {
		if sale.createdAt.Before(from) || !sale.createdAt.Before(to) {
			continue
		}
		day := sale.createdAt.UTC().Truncate(24 * time.Hour)
		row, ok := byDay[day]
		if !ok {
			row = &DailyRevenueRow{Day: day}
			byDay[day] = row
		}
		row.Revenue = row.Revenue.Add(sale.total)
		row.Sales++
	}
	rows := make([]DailyRevenueRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (s *stubSalesReader) RecentTransactions(_ context.Context, _ uuid.UUID, n int) ([]models.Transaction, error) {
	if len(s.recent) > n {
		return s.recent[:n], nil
	}
	return s.recent, nil
}

func (s *stubSalesReader) CountTransactionsSince(_ context.Context, _ uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, sale := range s.sales {
		if !sale.createdAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *stubSalesReader) CountDistinctPatientsSince(_ context.Context, _ uuid.UUID, since time.Time) (int64, error) {
	phones := make(map[string]struct{})
	for _, sale := range s.sales {
		if !sale.createdAt.Before(since) && sale.patientPhone != "" {
			phones[sale.patientPhone] = struct{}{}
		}
	}
	return int64(len(phones)), nil
}

type stubStockCounter struct {
	total    int64
	lowStock []models.InventoryItem
}

func (s *stubStockCounter) CountByPharmacy(context.Context, uuid.UUID) (int64, error) {
	return s.total, nil
}

func (s *stubStockCounter) ListLowStock(context.Context, uuid.UUID) ([]models.InventoryItem, error) {
	return s.lowStock, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 8, 20, 14, 30, 0, 0, time.UTC)
}

func newStatsService(t *testing.T, sales *stubSalesReader, stock *stubStockCounter) *service {
	t.Helper()
	svc, err := NewService(sales, stock)
	require.NoError(t, err)
	s := svc.(*service)
	s.now = fixedNow
	return s
}

func TestDashboardAggregates(t *testing.T) {
	today := fixedNow().Truncate(24 * time.Hour)
	sales := &stubSalesReader{
		sales: []saleRecord{
			{total: decimal.NewFromFloat(10), patientPhone: "111", createdAt: today.Add(2 * time.Hour)},
			{total: decimal.NewFromFloat(5), patientPhone: "111", createdAt: today.Add(3 * time.Hour)},
			{total: decimal.NewFromFloat(7), patientPhone: "222", createdAt: today.Add(4 * time.Hour)},
			{total: decimal.NewFromFloat(99), patientPhone: "333", createdAt: today.AddDate(0, 0, -3)},
		},
		recent: []models.Transaction{
			{ID: uuid.New(), PatientName: "Asha", Total: decimal.NewFromFloat(7), CreatedAt: today.Add(4 * time.Hour)},
		},
	}
	stock := &stubStockCounter{total: 42, lowStock: []models.InventoryItem{{}, {}}}

	svc := newStatsService(t, sales, stock)
	dto, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	require.True(t, dto.TodayRevenue.Equal(decimal.NewFromFloat(22)), "got %s", dto.TodayRevenue)
	require.EqualValues(t, 3, dto.TodaySales)
	require.EqualValues(t, 2, dto.TodayPatients)
	require.EqualValues(t, 42, dto.InventoryCount)
	require.EqualValues(t, 2, dto.LowStockCount)
	require.Len(t, dto.RecentSales, 1)
	require.Len(t, dto.WeeklyRevenue, 7)
}

func TestRevenueWindows(t *testing.T) {
	// fixedNow is Wednesday 2025-08-20; the ISO week starts Monday the 18th
	// and the month on the 1st.
	today := fixedNow().Truncate(24 * time.Hour)
	sales := &stubSalesReader{
		sales: []saleRecord{
			{total: decimal.NewFromFloat(10), createdAt: today.Add(time.Hour)},
			{total: decimal.NewFromFloat(20), createdAt: today.AddDate(0, 0, -2).Add(time.Hour)},
			{total: decimal.NewFromFloat(40), createdAt: today.AddDate(0, 0, -18)},
			{total: decimal.NewFromFloat(80), createdAt: today.AddDate(0, 0, -25)},
		},
	}

	svc := newStatsService(t, sales, &stubStockCounter{})
	dto, err := svc.Revenue(context.Background(), uuid.New())
	require.NoError(t, err)

	require.True(t, dto.Today.Equal(decimal.NewFromFloat(10)), "got %s", dto.Today)
	require.True(t, dto.Week.Equal(decimal.NewFromFloat(30)), "got %s", dto.Week)
	require.True(t, dto.Month.Equal(decimal.NewFromFloat(70)), "got %s", dto.Month)
}

func TestRevenueWeekExcludesPriorCalendarWeek(t *testing.T) {
	today := fixedNow().Truncate(24 * time.Hour)
	sales := &stubSalesReader{
		sales: []saleRecord{
			{total: decimal.NewFromFloat(1), createdAt: today.Add(time.Hour)},
			// Thursday the 14th: inside a trailing 7-day span but in the
			// previous calendar week, so it must not count toward Week.
			{total: decimal.NewFromFloat(10), createdAt: today.AddDate(0, 0, -6).Add(time.Hour)},
		},
	}

	svc := newStatsService(t, sales, &stubStockCounter{})
	dto, err := svc.Revenue(context.Background(), uuid.New())
	require.NoError(t, err)

	require.True(t, dto.Week.Equal(decimal.NewFromFloat(1)), "got %s", dto.Week)
	require.True(t, dto.Month.Equal(decimal.NewFromFloat(11)), "got %s", dto.Month)
}

func TestRevenueMonthExcludesPriorMonth(t *testing.T) {
	today := fixedNow().Truncate(24 * time.Hour)
	sales := &stubSalesReader{
		sales: []saleRecord{
			{total: decimal.NewFromFloat(5), createdAt: today.Add(time.Hour)},
			// July 26th: inside a trailing 30-day span but before the first
			// of August, so it must not count toward Month.
			{total: decimal.NewFromFloat(50), createdAt: today.AddDate(0, 0, -25)},
		},
	}

	svc := newStatsService(t, sales, &stubStockCounter{})
	dto, err := svc.Revenue(context.Background(), uuid.New())
	require.NoError(t, err)

	require.True(t, dto.Month.Equal(decimal.NewFromFloat(5)), "got %s", dto.Month)
}

func TestWeeklyBucketsAreZeroFilled(t *testing.T) {
	today := fixedNow().Truncate(24 * time.Hour)
	sales := &stubSalesReader{
		sales: []saleRecord{
			{total: decimal.NewFromFloat(10), createdAt: today.AddDate(0, 0, -2).Add(time.Hour)},
		},
	}

	svc := newStatsService(t, sales, &stubStockCounter{})
	dto, err := svc.Revenue(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, dto.Daily, 7)

	nonZero := 0
	for _, bucket := range dto.Daily {
		if !bucket.Revenue.IsZero() {
			nonZero++
			require.Equal(t, today.AddDate(0, 0, -2).Format("2006-01-02"), bucket.Day)
		}
	}
	require.Equal(t, 1, nonZero)
}
