// Package resource implements the shared store pattern behind the product,
// stock and history views: one page of items under a filter/pagination
// combination, refreshed by explicit fetches and reconciled after mutations.
package resource

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/logging"
)

// Filters is the current filter set. Values are strings and bools; a key
// that is absent or zero is omitted from the outgoing query.
type Filters map[string]any

func (f Filters) clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Str returns the string filter under key, or "".
func (f Filters) Str(key string) string {
	s, _ := f[key].(string)
	return s
}

// Bool returns the bool filter under key, or false.
func (f Filters) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// BoolPtr returns the bool filter under key, or nil when unset.
func (f Filters) BoolPtr(key string) *bool {
	if b, ok := f[key].(bool); ok {
		return &b
	}
	return nil
}

// Query is the snapshot a fetch was issued with.
type Query struct {
	Filters Filters
	Page    int
	Limit   int
}

// PageResult is one fetched page plus the server-reported pagination.
type PageResult[T any] struct {
	Items      []T
	Pagination domain.Pagination
}

// FetchFunc loads one page for a query snapshot.
type FetchFunc[T any] func(ctx context.Context, q Query) (PageResult[T], error)

// Store holds one page of items for the current filters. It is safe for
// concurrent use; the view layer reads snapshots while fetches run in the
// background.
type Store[T any] struct {
	name  string
	fetch FetchFunc[T]
	id    func(T) string
	log   zerolog.Logger

	mu         sync.Mutex
	items      []T
	pagination domain.Pagination
	filters    Filters
	defaults   Filters
	loading    bool
	err        error

	// seq numbers fetch issuance. A response whose tag is no longer the
	// latest issued sequence is stale and gets discarded, so a slow old
	// response can never clobber a newer one.
	seq uint64
}

// NewStore builds a store. defaults seeds the filter set (and is what Reset
// restores); id extracts item identity for targeted patching.
func NewStore[T any](name string, limit int, defaults Filters, id func(T) string, fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{
		name:     name,
		fetch:    fetch,
		id:       id,
		log:      logging.New("store." + name),
		filters:  defaults.clone(),
		defaults: defaults.clone(),
		pagination: domain.Pagination{
			Page:  1,
			Limit: limit,
		},
	}
}

// SetFilters shallow-merges partial into the filter set and resets the page
// to 1: a filter change invalidates the old page position. It never fetches;
// the consumer decides when to refresh.
func (s *Store[T]) SetFilters(partial Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range partial {
		s.filters[k] = v
	}
	s.pagination.Page = 1
}

// SetPage moves to page n. Only n >= 1 is enforced; the server is
// authoritative for the upper bound and answers an out-of-range page with an
// empty list, not an error.
func (s *Store[T]) SetPage(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.Page = n
}

// Fetch loads the page for the current filters and pagination. On success
// items and pagination are replaced wholesale. On failure the previous items
// stay visible (stale-while-revalidate): loading is only raised when the
// list is empty, otherwise only the error surfaces.
func (s *Store[T]) Fetch(ctx context.Context) error {
	return s.runFetch(ctx, s.fetch)
}

// runFetch drives one tagged fetch through fn. Concrete stores reuse it for
// alternate fetch paths (e.g. history scoped to one product).
func (s *Store[T]) runFetch(ctx context.Context, fn FetchFunc[T]) error {
	s.mu.Lock()
	s.seq++
	tag := s.seq
	if len(s.items) == 0 {
		s.loading = true
	}
	s.err = nil
	q := Query{
		Filters: s.filters.clone(),
		Page:    s.pagination.Page,
		Limit:   s.pagination.Limit,
	}
	s.mu.Unlock()

	reqID := ulid.Make().String()
	s.log.Debug().Str("req", reqID).Int("page", q.Page).Msg("fetch issued")

	page, err := fn(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != s.seq {
		// A newer fetch was issued while this one was in flight; its
		// result is the truth now, whatever order the responses landed.
		s.log.Debug().Str("req", reqID).Msg("stale response discarded")
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err
		s.log.Warn().Str("req", reqID).Err(err).Msg("fetch failed")
		return err
	}
	s.items = page.Items
	s.pagination = page.Pagination
	s.log.Debug().Str("req", reqID).Int("items", len(page.Items)).Msg("fetch applied")
	return nil
}

// Items returns the current page of items.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id from the current page.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Pagination returns the current page descriptor.
func (s *Store[T]) Pagination() domain.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Filters returns a copy of the current filter set.
func (s *Store[T]) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.clone()
}

// Loading reports whether an initial fetch is outstanding.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch or mutation error.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError drops the surfaced error.
func (s *Store[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Reset restores the store to its initial state.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.filters = s.defaults.clone()
	s.pagination = domain.Pagination{Page: 1, Limit: s.pagination.Limit}
	s.loading = false
	s.err = nil
	s.seq++
}

// patchItem replaces the item with matching identity in place. Used after
// single-item mutations so an edit never resets the page position.
func (s *Store[T]) patchItem(item T) {
	id := s.id(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if s.id(it) == id {
			s.items[i] = item
			return
		}
	}
}

// removeItem drops the item with the given id locally. Removal is
// position-safe, so hard deletes skip the refetch.
func (s *Store[T]) removeItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if s.id(it) == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
