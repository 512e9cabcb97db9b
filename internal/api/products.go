package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

// ProductQuery is the filter/pagination set accepted by GET /products.
// Zero values are omitted from the query string.
type ProductQuery struct {
	Page      int
	Limit     int
	Search    string
	IsActive  *bool
	SortBy    string
	SortOrder string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v
}

// ProductPage is one page of products plus the server-reported pagination.
type ProductPage struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

// ListProducts fetches one page of products for the given query.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var page ProductPage
	path := "/products"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct registers a new product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct changes name, price or active flag. Stock is not writable
// here; use Restock, RecordSale or AdjustStock so a history record exists.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	in.Stock = nil
	var p domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct soft-deletes: the product is hidden but kept server-side.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// HardDeleteProduct removes a product permanently.
func (c *Client) HardDeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id+"/hard", nil, nil)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// Restock adds quantity units and returns the updated product.
func (c *Client) Restock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, "/products/"+id+"/restock", quantityRequest{Quantity: quantity}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RecordSale subtracts quantity units and returns the updated product.
func (c *Client) RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, "/products/"+id+"/sale", quantityRequest{Quantity: quantity}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type adjustRequest struct {
	Stock int    `json:"stock"`
	Notes string `json:"notes,omitempty"`
}

// AdjustStock sets an absolute stock value with an optional note.
func (c *Client) AdjustStock(ctx context.Context, id string, stock int, notes string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+id+"/adjust", adjustRequest{Stock: stock, Notes: notes}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductStats returns the dashboard aggregates.
func (c *Client) ProductStats(ctx context.Context) (*domain.ProductStats, error) {
	var s domain.ProductStats
	if err := c.do(ctx, http.MethodGet, "/products/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LowStock lists products at or below threshold units.
func (c *Client) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/low-stock?threshold=" + strconv.Itoa(threshold)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
