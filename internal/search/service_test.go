package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubInventorySearcher struct {
	rows  []models.InventoryItem
	err   error
	calls atomic.Int32
}

func (s *stubInventorySearcher) SearchByTerm(_ context.Context, term string, _ *uuid.UUID, limit int) ([]models.InventoryItem, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var out []models.InventoryItem
	for _, row := range s.rows {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(row.Name), strings.ToLower(term)) {
			out = append(out, row)
		}
	}
	return out, nil
}

type stubCatalogSearcher struct {
	rows  []models.CatalogEntry
	err   error
	calls atomic.Int32
}

func (s *stubCatalogSearcher) SearchByTerm(_ context.Context, term string, limit int) ([]models.CatalogEntry, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var out []models.CatalogEntry
	for _, row := range s.rows {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(row.Name), strings.ToLower(term)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func invItem(name string, qty int) models.InventoryItem {
	return models.InventoryItem{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  qty,
		UnitPrice: decimal.NewFromFloat(3.20),
		Category:  "Analgesic",
	}
}

func catEntry(name string, indications ...string) models.CatalogEntry {
	return models.CatalogEntry{
		ID:          uuid.New(),
		Name:        name,
		GenericName: strings.ToLower(name),
		Category:    "Analgesic",
		Indications: pq.StringArray(indications),
	}
}

func newTestService(t *testing.T, inv *stubInventorySearcher, cat *stubCatalogSearcher) Service {
	t.Helper()
	svc, err := NewService(inv, cat, config.SearchConfig{ResultLimit: 20})
	require.NoError(t, err)
	return svc
}

func TestSearchMergesInventoryFirst(t *testing.T) {
	inv := &stubInventorySearcher{rows: []models.InventoryItem{invItem("Paracetamol", 12)}}
	cat := &stubCatalogSearcher{rows: []models.CatalogEntry{catEntry("Paracetamol Extra"), catEntry("Paracip")}}
	svc := newTestService(t, inv, cat)

	results, err := svc.Search(context.Background(), Query{Term: "para"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, SourceInventory, results[0].Source)
	require.True(t, results[0].InStock)
	require.Equal(t, "unknown", results[0].GenericName)
	require.Equal(t, []string{"unknown"}, results[0].Indications)
	require.Equal(t, SourceCatalog, results[1].Source)
	require.Equal(t, SourceCatalog, results[2].Source)
}

func TestSearchFoldsCatalogFieldsIntoInventoryHits(t *testing.T) {
	inv := &stubInventorySearcher{rows: []models.InventoryItem{invItem("Paracetamol", 5)}}
	cat := &stubCatalogSearcher{rows: []models.CatalogEntry{catEntry("PARACETAMOL", "fever"), catEntry("Paracip")}}
	svc := newTestService(t, inv, cat)

	results, err := svc.Search(context.Background(), Query{Term: "para"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, SourceInventory, results[0].Source)
	require.Equal(t, "Paracetamol", results[0].Name)
	require.Equal(t, "paracetamol", results[0].GenericName)
	require.Equal(t, []string{"fever"}, results[0].Indications)
	require.NotNil(t, results[0].CatalogEntryID)
	require.True(t, results[0].InStock)
	require.Equal(t, "Paracip", results[1].Name)
}

func TestSearchPreservesSourceOrder(t *testing.T) {
	inv := &stubInventorySearcher{rows: []models.InventoryItem{invItem("Parafen", 2), invItem("Paracetamol", 9)}}
	cat := &stubCatalogSearcher{rows: []models.CatalogEntry{catEntry("Paracip"), catEntry("Paraxin")}}
	svc := newTestService(t, inv, cat)

	results, err := svc.Search(context.Background(), Query{Term: "para"})
	require.NoError(t, err)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"Parafen", "Paracetamol", "Paracip", "Paraxin"}, names)
}

func TestSearchEmptyTermSkipsLookups(t *testing.T) {
	inv := &stubInventorySearcher{}
	cat := &stubCatalogSearcher{}
	svc := newTestService(t, inv, cat)

	results, err := svc.Search(context.Background(), Query{Term: "   "})
	require.NoError(t, err)
	require.Empty(t, results)
	require.Zero(t, inv.calls.Load())
	require.Zero(t, cat.calls.Load())
}

func TestSearchFailsWhenInventoryLegFails(t *testing.T) {
	inv := &stubInventorySearcher{err: errors.New("db down")}
	cat := &stubCatalogSearcher{rows: []models.CatalogEntry{catEntry("Paracip")}}
	svc := newTestService(t, inv, cat)

	_, err := svc.Search(context.Background(), Query{Term: "para"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestSearchFailsWhenCatalogLegFails(t *testing.T) {
	inv := &stubInventorySearcher{rows: []models.InventoryItem{invItem("Paracetamol", 1)}}
	cat := &stubCatalogSearcher{err: errors.New("fts not ready")}
	svc := newTestService(t, inv, cat)

	_, err := svc.Search(context.Background(), Query{Term: "para"})
	require.Error(t, err)
}

func TestSearchCapsResultsAtLimit(t *testing.T) {
	inv := &stubInventorySearcher{}
	cat := &stubCatalogSearcher{}
	for i := 0; i < 30; i++ {
		inv.rows = append(inv.rows, invItem("Para-"+uuid.NewString(), 1))
	}
	svc, err := NewService(inv, cat, config.SearchConfig{ResultLimit: 5})
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), Query{Term: "para"})
	require.NoError(t, err)
	require.Len(t, results, 5)
}

func TestSearchOutOfStockInventoryStillListed(t *testing.T) {
	inv := &stubInventorySearcher{rows: []models.InventoryItem{invItem("Paracetamol", 0)}}
	cat := &stubCatalogSearcher{}
	svc := newTestService(t, inv, cat)

	results, err := svc.Search(context.Background(), Query{Term: "para"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].InStock)
	require.Equal(t, SourceInventory, results[0].Source)
}
