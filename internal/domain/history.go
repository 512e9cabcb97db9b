package domain

import "time"

// MutationType classifies a stock history entry.
type MutationType string

const (
	MutationRestock    MutationType = "restock"
	MutationSale       MutationType = "sale"
	MutationAdjustment MutationType = "adjustment"
)

// HistoryEntry records one stock mutation. Quantity is the signed delta
// applied to the product: sales are negative, restocks positive, adjustments
// carry whatever delta the operator's new absolute value produced.
type HistoryEntry struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Type        MutationType `json:"type"`
	Quantity    int          `json:"quantity"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// HistoryStats aggregates mutation counts, optionally scoped to today.
type HistoryStats struct {
	TotalRestock      int `json:"totalRestock"`
	TotalSale         int `json:"totalSale"`
	TotalAdjustment   int `json:"totalAdjustment"`
	QuantityRestocked int `json:"quantityRestocked"`
	QuantitySold      int `json:"quantitySold"`
}

// Pagination is the server-reported page descriptor attached to every list
// response. Total and Pages are authoritative; the client never derives them.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
