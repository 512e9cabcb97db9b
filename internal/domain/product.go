package domain

import "time"

// Product is a sellable item tracked by the inventory backend.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	IsActive  bool      `json:"isActive"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductInput carries the writable fields for create and update calls.
// Stock is only honored on create; updates go through the stock operations
// so every change leaves a history record.
type ProductInput struct {
	Name     string   `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// ProductStats is the aggregate reported by GET /products/stats.
type ProductStats struct {
	TotalProducts  int     `json:"totalProducts"`
	ActiveProducts int     `json:"activeProducts"`
	TotalStock     int     `json:"totalStock"`
	InventoryValue float64 `json:"inventoryValue"`
}
