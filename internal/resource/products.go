package resource

import (
	"context"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
)

// Filter keys shared by the product-backed stores.
const (
	FilterSearch    = "search"
	FilterIsActive  = "isActive"
	FilterSortBy    = "sortBy"
	FilterSortOrder = "sortOrder"
)

// ProductAPI is the slice of the gateway the product stores consume.
type ProductAPI interface {
	ListProducts(ctx context.Context, q api.ProductQuery) (*api.ProductPage, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	HardDeleteProduct(ctx context.Context, id string) error
	Restock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, stock int, notes string) (*domain.Product, error)
}

// ProductStore manages the product catalog view: paged listing plus the
// create/update/delete lifecycle.
type ProductStore struct {
	*Store[domain.Product]
	api ProductAPI
}

// NewProductStore builds the catalog store. Default sort is newest first.
func NewProductStore(client ProductAPI, limit int) *ProductStore {
	s := &ProductStore{api: client}
	s.Store = NewStore("products", limit, Filters{
		FilterSearch:    "",
		FilterSortBy:    "createdAt",
		FilterSortOrder: "desc",
	}, productID, s.fetchPage)
	return s
}

func productID(p domain.Product) string { return p.ID }

func (s *ProductStore) fetchPage(ctx context.Context, q Query) (PageResult[domain.Product], error) {
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

// Create registers a product and refetches: under the current sort the new
// item may land on another page, so local insertion is unsafe.
func (s *ProductStore) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Fetch(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// Update edits a product in place: the matching row is patched, no refetch,
// so the operator keeps their page position.
func (s *ProductStore) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.patchItem(*p)
	return p, nil
}

// Delete soft-deletes and refetches; the hidden item changes what belongs on
// this page.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

// HardDelete removes permanently and drops the row locally.
func (s *ProductStore) HardDelete(ctx context.Context, id string) error {
	if err := s.api.HardDeleteProduct(ctx, id); err != nil {
		return err
	}
	s.removeItem(id)
	return nil
}

// Restock adds quantity units to a product.
func (s *ProductStore) Restock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
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

// RecordSale sells quantity units. Rejected locally when the quantity is not
// positive or exceeds the stock on hand, before any network call.
func (s *ProductStore) RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error) {
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
