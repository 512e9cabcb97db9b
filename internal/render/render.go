// Package render formats command output for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yogamuz/inventory-pos/internal/domain"
	invstrings "github.com/yogamuz/inventory-pos/internal/strings"
)

// Renderer handles output formatting. With pretty off it prints plain text
// suitable for piping.
type Renderer struct {
	pretty bool
}

// New creates a renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Products formats one page of products.
func (r *Renderer) Products(products []domain.Product, p domain.Pagination) string {
	if len(products) == 0 {
		return "No products found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Products\n"))
		sb.WriteString(strings.Repeat("─", 72) + "\n")
	}

	for _, prod := range products {
		status := "inactive"
		if prod.IsActive {
			status = "active"
		}
		if r.pretty {
			if prod.IsActive {
				status = color.GreenString(status)
			} else {
				status = color.RedString(status)
			}
		}
		sb.WriteString(fmt.Sprintf("%-24s  %12s  %5d pcs  %-8s  %s\n",
			invstrings.Truncate(prod.Name, 24), FormatPrice(prod.Price), prod.Stock, status, prod.ID))
	}

	sb.WriteString(r.pageLine(p))
	return sb.String()
}

// History formats one page of stock mutation records.
func (r *Renderer) History(entries []domain.HistoryEntry, p domain.Pagination) string {
	if len(entries) == 0 {
		return "No history found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Stock History\n"))
		sb.WriteString(strings.Repeat("─", 72) + "\n")
	}

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %-10s  %+5d  %-24s  %s\n",
			e.CreatedAt.Local().Format("02 Jan 15:04"),
			r.mutation(e.Type), e.Quantity, invstrings.Truncate(e.ProductName, 24), e.Notes))
	}

	sb.WriteString(r.pageLine(p))
	return sb.String()
}

// HistoryStats formats the mutation aggregates.
func (r *Renderer) HistoryStats(s domain.HistoryStats, today bool) string {
	scope := "all time"
	if today {
		scope = "today"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stock movements (%s)\n", scope))
	sb.WriteString(fmt.Sprintf("  restocks:    %4d (%d pcs in)\n", s.TotalRestock, s.QuantityRestocked))
	sb.WriteString(fmt.Sprintf("  sales:       %4d (%d pcs out)\n", s.TotalSale, s.QuantitySold))
	sb.WriteString(fmt.Sprintf("  adjustments: %4d\n", s.TotalAdjustment))
	return sb.String()
}

// ProductStats formats the dashboard aggregates.
func (r *Renderer) ProductStats(s domain.ProductStats) string {
	var sb strings.Builder
	sb.WriteString("Inventory\n")
	sb.WriteString(fmt.Sprintf("  products: %d (%d active)\n", s.TotalProducts, s.ActiveProducts))
	sb.WriteString(fmt.Sprintf("  stock on hand: %d pcs\n", s.TotalStock))
	sb.WriteString(fmt.Sprintf("  inventory value: %s\n", FormatPrice(s.InventoryValue)))
	return sb.String()
}

// LowStock formats the products at or under the threshold.
func (r *Renderer) LowStock(products []domain.Product, threshold int) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products at or below %d pcs", threshold)
	}
	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.YellowString("Low stock (<= %d pcs)\n", threshold))
	} else {
		sb.WriteString(fmt.Sprintf("Low stock (<= %d pcs)\n", threshold))
	}
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("%-24s  %3d pcs\n", invstrings.Truncate(p.Name, 24), p.Stock))
	}
	return sb.String()
}

// User formats a profile line.
func (r *Renderer) User(u *domain.User) string {
	if u == nil {
		return "Not signed in"
	}
	line := u.Username
	if u.Role != "" {
		line += " (" + u.Role + ")"
	}
	if u.Email != "" {
		line += "  " + u.Email
	}
	return line
}

func (r *Renderer) mutation(t domain.MutationType) string {
	if !r.pretty {
		return string(t)
	}
	switch t {
	case domain.MutationSale:
		return color.GreenString(string(t))
	case domain.MutationRestock:
		return color.YellowString(string(t))
	case domain.MutationAdjustment:
		return color.BlueString(string(t))
	}
	return string(t)
}

func (r *Renderer) pageLine(p domain.Pagination) string {
	pages := p.Pages
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf("page %d/%d (%d total)\n", p.Page, pages, p.Total)
}

// FormatPrice renders a price in rupiah with thousand separators.
func FormatPrice(v float64) string {
	n := int64(v)
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}

// Timestamp formats a time for status lines.
func Timestamp(t time.Time) string {
	return t.Local().Format("02 Jan 2006 15:04")
}
