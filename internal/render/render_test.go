package render

import (
	"strings"
	"testing"
	"time"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{15000, "Rp 15.000"},
		{1250000, "Rp 1.250.000"},
		{1234567890, "Rp 1.234.567.890"},
		{-7500, "-Rp 7.500"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductsEmpty(t *testing.T) {
	r := New(false)
	out := r.Products(nil, domain.Pagination{})
	if out != "No products found" {
		t.Errorf("unexpected empty output: %q", out)
	}
}

func TestProductsPlain(t *testing.T) {
	r := New(false)
	products := []domain.Product{
		{ID: "p1", Name: "Kopi Susu", Price: 15000, Stock: 12, IsActive: true},
		{ID: "p2", Name: "Teh Manis", Price: 8000, Stock: 0, IsActive: false},
	}
	out := r.Products(products, domain.Pagination{Page: 1, Pages: 3, Total: 25})

	for _, want := range []string{"Kopi Susu", "Rp 15.000", "active", "inactive", "page 1/3 (25 total)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryShowsSignedQuantity(t *testing.T) {
	r := New(false)
	entries := []domain.HistoryEntry{
		{ID: "h1", ProductName: "Kopi", Type: domain.MutationSale, Quantity: -4, CreatedAt: time.Now()},
		{ID: "h2", ProductName: "Kopi", Type: domain.MutationRestock, Quantity: 10, CreatedAt: time.Now()},
	}
	out := r.History(entries, domain.Pagination{Page: 1, Pages: 1, Total: 2})

	if !strings.Contains(out, "-4") {
		t.Errorf("sale delta should render signed:\n%s", out)
	}
	if !strings.Contains(out, "+10") {
		t.Errorf("restock delta should render signed:\n%s", out)
	}
}

func TestPageLineClampsToOnePage(t *testing.T) {
	r := New(false)
	out := r.Products([]domain.Product{{ID: "p1", Name: "Kopi"}}, domain.Pagination{Page: 1, Pages: 0, Total: 1})
	if !strings.Contains(out, "page 1/1") {
		t.Errorf("zero pages should render as one:\n%s", out)
	}
}

func TestUserLine(t *testing.T) {
	r := New(false)

	if got := r.User(nil); got != "Not signed in" {
		t.Errorf("nil user: %q", got)
	}

	u := &domain.User{Username: "budi", Role: "admin", Email: "budi@example.com"}
	got := r.User(u)
	for _, want := range []string{"budi", "admin", "budi@example.com"} {
		if !strings.Contains(got, want) {
			t.Errorf("user line missing %q: %q", want, got)
		}
	}
}
