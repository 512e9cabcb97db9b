package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
)

type fakeHistoryAPI struct {
	entries []domain.HistoryEntry
	stats   domain.HistoryStats

	statsErr error

	listCalls      int
	statsCalls     int
	byProductCalls int

	lastQuery     api.HistoryQuery
	lastToday     bool
	lastProductID string
}

func (f *fakeHistoryAPI) ListHistory(ctx context.Context, q api.HistoryQuery) (*api.HistoryPage, error) {
	f.listCalls++
	f.lastQuery = q
	return &api.HistoryPage{
		History:    f.entries,
		Pagination: domain.Pagination{Page: q.Page, Limit: q.Limit, Total: len(f.entries), Pages: 1},
	}, nil
}

func (f *fakeHistoryAPI) HistoryStats(ctx context.Context, today bool) (*domain.HistoryStats, error) {
	f.statsCalls++
	f.lastToday = today
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	out := f.stats
	return &out, nil
}

func (f *fakeHistoryAPI) HistoryByProduct(ctx context.Context, productID string, q api.HistoryQuery) (*api.HistoryPage, error) {
	f.byProductCalls++
	f.lastProductID = productID
	f.lastQuery = q
	return &api.HistoryPage{
		History:    f.entries,
		Pagination: domain.Pagination{Page: q.Page, Limit: q.Limit, Total: len(f.entries), Pages: 1},
	}, nil
}

func TestHistoryFetchMapsFilters(t *testing.T) {
	fake := &fakeHistoryAPI{}
	s := NewHistoryStore(fake, 20)

	s.SetFilters(Filters{
		FilterProductName: "kopi",
		FilterType:        string(domain.MutationSale),
		FilterToday:       true,
	})
	require.NoError(t, s.Fetch(context.Background()))

	assert.Equal(t, "kopi", fake.lastQuery.ProductName)
	assert.Equal(t, domain.MutationSale, fake.lastQuery.Type)
	assert.True(t, fake.lastQuery.Today)
	assert.Equal(t, 20, fake.lastQuery.Limit)
}

func TestHistoryFetchByProduct(t *testing.T) {
	fake := &fakeHistoryAPI{entries: []domain.HistoryEntry{{ID: "h1", ProductID: "p1", Type: domain.MutationSale, Quantity: -4}}}
	s := NewHistoryStore(fake, 20)
	s.SetFilters(Filters{FilterProductName: "kopi", FilterType: string(domain.MutationSale)})

	require.NoError(t, s.FetchByProduct(context.Background(), "p1"))

	assert.Equal(t, 1, fake.byProductCalls)
	assert.Equal(t, "p1", fake.lastProductID)
	// The id already scopes the query; the name filter would double-filter.
	assert.Empty(t, fake.lastQuery.ProductName)
	assert.Equal(t, domain.MutationSale, fake.lastQuery.Type)
	assert.Len(t, s.Items(), 1)
}

func TestHistoryStatsHonorsTodayFilter(t *testing.T) {
	fake := &fakeHistoryAPI{stats: domain.HistoryStats{TotalSale: 7, QuantitySold: 31}}
	s := NewHistoryStore(fake, 20)

	s.SetFilters(Filters{FilterToday: true})
	s.FetchStats(context.Background())

	assert.True(t, fake.lastToday)
	assert.Equal(t, 7, s.Stats().TotalSale)
	assert.Equal(t, 31, s.Stats().QuantitySold)
}

func TestHistoryStatsFailureKeepsLastValue(t *testing.T) {
	fake := &fakeHistoryAPI{stats: domain.HistoryStats{TotalRestock: 3}}
	s := NewHistoryStore(fake, 20)

	s.FetchStats(context.Background())
	require.Equal(t, 3, s.Stats().TotalRestock)

	fake.statsErr = errors.New("boom")
	s.FetchStats(context.Background())

	// Stats are auxiliary; a failed refresh never blanks the last value.
	assert.Equal(t, 3, s.Stats().TotalRestock)
	assert.NoError(t, s.Err())
}
