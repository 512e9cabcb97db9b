package resource

import (
	"context"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
)

// StockStore manages the stock operations view. It wraps the same product
// entities as ProductStore but defaults to active products only, and its
// mutations are the operator-facing stock movements: restock, sale and
// absolute adjustment.
type StockStore struct {
	*Store[domain.Product]
	api ProductAPI
}

// NewStockStore builds the stock view store.
func NewStockStore(client ProductAPI, limit int) *StockStore {
	s := &StockStore{api: client}
	s.Store = NewStore("stock", limit, Filters{
		FilterSearch:    "",
		FilterIsActive:  true,
		FilterSortBy:    "createdAt",
		FilterSortOrder: "desc",
	}, productID, s.fetchPage)
	return s
}

func (s *StockStore) fetchPage(ctx context.Context, q Query) (PageResult[domain.Product], error) {
	page, err := s.api.ListProducts(ctx, api.ProductQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    q.Filters.Str(FilterSearch),
		IsActive:  q.Filters.BoolPtr(FilterIsActive),
		SortBy:    q.Filters.Str(FilterSortBy),
		SortOrder: q.Filters.Str(FilterSortOrder),
	})
	if err != nil {
		return PageResult[domain.Product]{}, err
	}
	return PageResult[domain.Product]{Items: page.Products, Pagination: page.Pagination}, nil
}

// Restock adds quantity units and patches the row in place.
func (s *StockStore) Restock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if err := ValidateRestock(quantity); err != nil {
		return nil, err
	}
	p, err := s.api.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	s.patchItem(*p)
	return p, nil
}

// RecordSale sells quantity units off a product. The invariants hold before
// any network traffic: quantity must be positive and cannot exceed the stock
// currently on hand, so recorded inventory can never go negative.
func (s *StockStore) RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	current, ok := s.Get(id)
	if !ok {
		return nil, errUnknownProduct(id)
	}
	if err := ValidateSale(quantity, current.Stock); err != nil {
		return nil, err
	}
	p, err := s.api.RecordSale(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	s.patchItem(*p)
	return p, nil
}

// Adjust sets an absolute stock value. Negative targets are rejected locally.
// The server records the signed delta against the previous stock as an
// adjustment entry.
func (s *StockStore) Adjust(ctx context.Context, id string, stock int, notes string) (*domain.Product, error) {
	if err := ValidateAdjust(stock); err != nil {
		return nil, err
	}
	if _, ok := s.Get(id); !ok {
		return nil, errUnknownProduct(id)
	}
	p, err := s.api.AdjustStock(ctx, id, stock, notes)
	if err != nil {
		return nil, err
	}
	s.patchItem(*p)
	return p, nil
}
