package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yogamuz/inventory-pos/internal/debounce"
	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/resource"
	invstrings "github.com/yogamuz/inventory-pos/internal/strings"
)

// historyModel shows the stock mutation log with its aggregates.
type historyModel struct {
	deps      Deps
	search    textinput.Model
	debouncer *debounce.Debouncer
}

func newHistoryModel(deps Deps, commits chan searchCommit) historyModel {
	search := textinput.New()
	search.Placeholder = "filter by product name"
	search.CharLimit = 64
	search.Width = 32

	d := debounce.New(deps.Cfg.SearchDebounce, func(value string) {
		commits <- searchCommit{view: ViewHistory, value: value}
	})
	d.Seed(deps.History.Filters().Str(resource.FilterProductName))

	return historyModel{deps: deps, search: search, debouncer: d}
}

func (h historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	if h.search.Focused() {
		switch key.String() {
		case "esc":
			h.search.Blur()
			return h, nil
		case "enter":
			h.search.Blur()
			h.debouncer.Flush()
			return h, nil
		}
		var cmd tea.Cmd
		before := h.search.Value()
		h.search, cmd = h.search.Update(msg)
		if h.search.Value() != before {
			h.debouncer.Input(h.search.Value())
		}
		return h, cmd
	}

	switch key.String() {
	case "/":
		h.search.Focus()
		return h, textinput.Blink
	case "r":
		return h, fetchHistoryCmd(h.deps)
	case "n":
		pg := h.deps.History.Pagination()
		h.deps.History.SetPage(pg.Page + 1)
		return h, fetchHistoryCmd(h.deps)
	case "p":
		pg := h.deps.History.Pagination()
		h.deps.History.SetPage(pg.Page - 1)
		return h, fetchHistoryCmd(h.deps)
	case "t":
		// Dropdown-style filters commit immediately, bypassing debounce.
		today := h.deps.History.Filters().Bool(resource.FilterToday)
		h.deps.History.SetFilters(resource.Filters{resource.FilterToday: !today})
		return h, fetchHistoryCmd(h.deps)
	case "m":
		h.deps.History.SetFilters(resource.Filters{
			resource.FilterType: nextMutationFilter(h.deps.History.Filters().Str(resource.FilterType)),
		})
		return h, fetchHistoryCmd(h.deps)
	}
	return h, nil
}

// nextMutationFilter cycles all -> restock -> sale -> adjustment -> all.
func nextMutationFilter(current string) string {
	switch domain.MutationType(current) {
	case "":
		return string(domain.MutationRestock)
	case domain.MutationRestock:
		return string(domain.MutationSale)
	case domain.MutationSale:
		return string(domain.MutationAdjustment)
	default:
		return ""
	}
}

func (h historyModel) View(sp spinner.Model) string {
	var sb strings.Builder
	sb.WriteString("\n  " + h.search.View() + "\n\n")

	store := h.deps.History
	stats := store.Stats()
	filters := store.Filters()
	scope := "all time"
	if filters.Bool(resource.FilterToday) {
		scope = "today"
	}
	sb.WriteString(infoStyle.Render(fmt.Sprintf(
		"  %s · restocks %d (+%d) · sales %d (-%d) · adjustments %d\n\n",
		scope, stats.TotalRestock, stats.QuantityRestocked,
		stats.TotalSale, stats.QuantitySold, stats.TotalAdjustment)))

	if store.Loading() {
		sb.WriteString(fmt.Sprintf("  %s loading history...\n", sp.View()))
		return sb.String()
	}
	if err := store.Err(); err != nil {
		sb.WriteString("  " + errorStyle.Render(err.Error()) + "\n\n")
	}

	items := store.Items()
	if len(items) == 0 {
		sb.WriteString("  no history\n")
		return sb.String()
	}
	for _, e := range items {
		sb.WriteString(fmt.Sprintf("  %s  %-10s  %+5d  %s\n",
			e.CreatedAt.Local().Format("02 Jan 15:04"), e.Type, e.Quantity,
			invstrings.Truncate(e.ProductName, 28)))
	}

	pg := store.Pagination()
	typeFilter := filters.Str(resource.FilterType)
	if typeFilter == "" {
		typeFilter = "all"
	}
	sb.WriteString(infoStyle.Render(fmt.Sprintf(
		"\n  page %d/%d · %d records · m type:%s · t today", pg.Page, maxInt(pg.Pages, 1), pg.Total, typeFilter)))
	return sb.String()
}
