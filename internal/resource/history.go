package resource

import (
	"context"
	"sync"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
)

// Filter keys specific to the history view.
const (
	FilterProductName = "productName"
	FilterType        = "type"
	FilterToday       = "today"
)

// HistoryAPI is the slice of the gateway the history store consumes.
type HistoryAPI interface {
	ListHistory(ctx context.Context, q api.HistoryQuery) (*api.HistoryPage, error)
	HistoryStats(ctx context.Context, today bool) (*domain.HistoryStats, error)
	HistoryByProduct(ctx context.Context, productID string, q api.HistoryQuery) (*api.HistoryPage, error)
}

// HistoryStore manages the stock mutation history view plus its aggregates.
type HistoryStore struct {
	*Store[domain.HistoryEntry]
	api HistoryAPI

	statsMu sync.Mutex
	stats   domain.HistoryStats
}

// NewHistoryStore builds the history store.
func NewHistoryStore(client HistoryAPI, limit int) *HistoryStore {
	s := &HistoryStore{api: client}
	s.Store = NewStore("history", limit, Filters{
		FilterProductName: "",
		FilterType:        "",
		FilterToday:       false,
	}, historyID, s.fetchPage)
	return s
}

func historyID(e domain.HistoryEntry) string { return e.ID }

func (s *HistoryStore) historyQuery(q Query) api.HistoryQuery {
	return api.HistoryQuery{
		Page:        q.Page,
		Limit:       q.Limit,
		ProductName: q.Filters.Str(FilterProductName),
		Type:        domain.MutationType(q.Filters.Str(FilterType)),
		Today:       q.Filters.Bool(FilterToday),
	}
}

func (s *HistoryStore) fetchPage(ctx context.Context, q Query) (PageResult[domain.HistoryEntry], error) {
	page, err := s.api.ListHistory(ctx, s.historyQuery(q))
	if err != nil {
		return PageResult[domain.HistoryEntry]{}, err
	}
	return PageResult[domain.HistoryEntry]{Items: page.History, Pagination: page.Pagination}, nil
}

// FetchByProduct loads the history of a single product under the current
// type/today filters, through the same staleness machinery as Fetch.
func (s *HistoryStore) FetchByProduct(ctx context.Context, productID string) error {
	return s.runFetch(ctx, func(ctx context.Context, q Query) (PageResult[domain.HistoryEntry], error) {
		hq := s.historyQuery(q)
		hq.ProductName = ""
		page, err := s.api.HistoryByProduct(ctx, productID, hq)
		if err != nil {
			return PageResult[domain.HistoryEntry]{}, err
		}
		return PageResult[domain.HistoryEntry]{Items: page.History, Pagination: page.Pagination}, nil
	})
}

// FetchStats refreshes the aggregates, honoring the today filter. Stats are
// auxiliary: a failure here is swallowed so it never blanks the list view.
func (s *HistoryStore) FetchStats(ctx context.Context) {
	today := s.Filters().Bool(FilterToday)
	stats, err := s.api.HistoryStats(ctx, today)
	if err != nil {
		return
	}
	s.statsMu.Lock()
	s.stats = *stats
	s.statsMu.Unlock()
}

// Stats returns the last fetched aggregates.
func (s *HistoryStore) Stats() domain.HistoryStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}
