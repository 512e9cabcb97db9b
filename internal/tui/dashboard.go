package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/render"
	invstrings "github.com/yogamuz/inventory-pos/internal/strings"
)

// dashboardModel shows the overview panels: inventory totals, today's
// movements, low stock and recent activity.
type dashboardModel struct {
	stats    *domain.ProductStats
	today    domain.HistoryStats
	lowStock []domain.Product
	recent   []domain.HistoryEntry
	err      error
	loaded   bool
}

func newDashboardModel() dashboardModel {
	return dashboardModel{}
}

// recentActivityQuery asks for the five newest history entries.
func recentActivityQuery() api.HistoryQuery {
	return api.HistoryQuery{Page: 1, Limit: 5}
}

func (d dashboardModel) Update(msg tea.Msg, deps Deps) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		d.loaded = true
		d.err = msg.err
		if msg.err == nil {
			d.stats = msg.stats
			d.today = msg.today
			d.lowStock = msg.lowStock
			d.recent = msg.recent
		}
	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, fetchDashboardCmd(deps)
		}
	}
	return d, nil
}

func (d dashboardModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")

	if d.err != nil {
		sb.WriteString("  " + errorStyle.Render(d.err.Error()) + "\n")
		return sb.String()
	}
	if !d.loaded {
		sb.WriteString("  loading dashboard...\n")
		return sb.String()
	}

	if d.stats != nil {
		sb.WriteString(boxStyle.Render(fmt.Sprintf(
			"products %d (%d active)\nstock on hand %d pcs\nvalue %s",
			d.stats.TotalProducts, d.stats.ActiveProducts,
			d.stats.TotalStock, render.FormatPrice(d.stats.InventoryValue))) + "\n")
	}

	sb.WriteString(boxStyle.Render(fmt.Sprintf(
		"today: %d sales (-%d pcs) · %d restocks (+%d pcs) · %d adjustments",
		d.today.TotalSale, d.today.QuantitySold,
		d.today.TotalRestock, d.today.QuantityRestocked,
		d.today.TotalAdjustment)) + "\n")

	if len(d.lowStock) > 0 {
		var low strings.Builder
		low.WriteString("low stock\n")
		for _, p := range d.lowStock {
			low.WriteString(fmt.Sprintf("  %-28s %4d pcs\n", invstrings.Truncate(p.Name, 28), p.Stock))
		}
		sb.WriteString(boxStyle.Render(strings.TrimRight(low.String(), "\n")) + "\n")
	}

	if len(d.recent) > 0 {
		var rec strings.Builder
		rec.WriteString("recent activity\n")
		for _, e := range d.recent {
			rec.WriteString(fmt.Sprintf("  %s  %-10s  %+4d  %s\n",
				e.CreatedAt.Local().Format("15:04"), e.Type, e.Quantity, invstrings.Truncate(e.ProductName, 24)))
		}
		sb.WriteString(boxStyle.Render(strings.TrimRight(rec.String(), "\n")) + "\n")
	}

	return sb.String()
}
