package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

// HistoryQuery is the filter/pagination set accepted by GET /history.
type HistoryQuery struct {
	Page        int
	Limit       int
	ProductName string
	Type        domain.MutationType
	Today       bool
}

func (q HistoryQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.ProductName != "" {
		v.Set("productName", q.ProductName)
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.Today {
		v.Set("today", "true")
	}
	return v
}

// HistoryPage is one page of stock mutation records.
type HistoryPage struct {
	History    []domain.HistoryEntry `json:"history"`
	Pagination domain.Pagination     `json:"pagination"`
}

// ListHistory fetches one page of stock mutation history.
func (c *Client) ListHistory(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	var page HistoryPage
	path := "/history"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// HistoryStats returns mutation aggregates, scoped to today when asked.
func (c *Client) HistoryStats(ctx context.Context, today bool) (*domain.HistoryStats, error) {
	var s domain.HistoryStats
	path := "/history/stats"
	if today {
		path += "?today=true"
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// HistoryByProduct fetches the mutation history of one product.
func (c *Client) HistoryByProduct(ctx context.Context, productID string, q HistoryQuery) (*HistoryPage, error) {
	var page HistoryPage
	path := "/history/product/" + productID
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ExportHistory streams the spreadsheet export for the last days days into w.
// The response is a binary download, not an enveloped JSON body.
func (c *Client) ExportHistory(ctx context.Context, days int, w io.Writer) error {
	path := fmt.Sprintf("%s/export/history?days=%d", c.base.String(), days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("X-Client-Id", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := KindServer
		if resp.StatusCode == http.StatusUnauthorized {
			kind = KindAuth
			c.handleUnauthorized("/export/history")
		}
		return &RequestError{Kind: kind, Status: resp.StatusCode, Message: "failed to export history"}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &RequestError{Kind: KindNetwork, Message: transportMessage(err)}
	}
	return nil
}
