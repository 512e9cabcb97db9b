package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yogamuz/inventory-pos/internal/debounce"
	"github.com/yogamuz/inventory-pos/internal/render"
	"github.com/yogamuz/inventory-pos/internal/resource"
	invstrings "github.com/yogamuz/inventory-pos/internal/strings"
)

// productsModel shows the catalog: searchable, filterable by active state,
// paged.
type productsModel struct {
	deps        Deps
	search      textinput.Model
	debouncer   *debounce.Debouncer
	selectedIdx int
}

func newProductsModel(deps Deps, commits chan searchCommit) productsModel {
	search := textinput.New()
	search.Placeholder = "search products"
	search.CharLimit = 64
	search.Width = 32

	d := debounce.New(deps.Cfg.SearchDebounce, func(value string) {
		commits <- searchCommit{view: ViewProducts, value: value}
	})
	// Seed from existing filters so re-entering the view does not refetch.
	d.Seed(deps.Products.Filters().Str(resource.FilterSearch))

	return productsModel{deps: deps, search: search, debouncer: d}
}

func (p productsModel) Update(msg tea.Msg) (productsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.search.Focused() {
		switch key.String() {
		case "esc":
			p.search.Blur()
			return p, nil
		case "enter":
			p.search.Blur()
			p.debouncer.Flush()
			return p, nil
		}
		var cmd tea.Cmd
		before := p.search.Value()
		p.search, cmd = p.search.Update(msg)
		if p.search.Value() != before {
			p.debouncer.Input(p.search.Value())
		}
		return p, cmd
	}

	switch key.String() {
	case "/":
		p.search.Focus()
		return p, textinput.Blink
	case "r":
		return p, fetchProductsCmd(p.deps)
	case "n":
		pg := p.deps.Products.Pagination()
		p.deps.Products.SetPage(pg.Page + 1)
		return p, fetchProductsCmd(p.deps)
	case "p":
		pg := p.deps.Products.Pagination()
		p.deps.Products.SetPage(pg.Page - 1)
		return p, fetchProductsCmd(p.deps)
	case "a":
		// Cycle the active filter: all -> active -> inactive -> all.
		// Non-text filters commit immediately, no debounce.
		filters := p.deps.Products.Filters()
		switch v := filters[resource.FilterIsActive]; v {
		case nil:
			p.deps.Products.SetFilters(resource.Filters{resource.FilterIsActive: true})
		case true:
			p.deps.Products.SetFilters(resource.Filters{resource.FilterIsActive: false})
		default:
			p.deps.Products.SetFilters(resource.Filters{resource.FilterIsActive: nil})
		}
		return p, fetchProductsCmd(p.deps)
	case "up", "k":
		if p.selectedIdx > 0 {
			p.selectedIdx--
		}
	case "down", "j":
		if p.selectedIdx < len(p.deps.Products.Items())-1 {
			p.selectedIdx++
		}
	}
	return p, nil
}

func (p productsModel) View(sp spinner.Model) string {
	var sb strings.Builder
	sb.WriteString("\n  " + p.search.View() + "\n\n")

	store := p.deps.Products
	if store.Loading() {
		sb.WriteString(fmt.Sprintf("  %s loading products...\n", sp.View()))
		return sb.String()
	}
	if err := store.Err(); err != nil {
		sb.WriteString("  " + errorStyle.Render(err.Error()) + "\n\n")
	}

	items := store.Items()
	if len(items) == 0 {
		sb.WriteString("  no products\n")
		return sb.String()
	}
	for i, prod := range items {
		line := fmt.Sprintf("%-28s %12s %6d pcs", invstrings.Truncate(prod.Name, 28), render.FormatPrice(prod.Price), prod.Stock)
		if !prod.IsActive {
			line += "  (inactive)"
		}
		if i == p.selectedIdx {
			sb.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString("    " + line + "\n")
		}
	}

	pg := store.Pagination()
	sb.WriteString(infoStyle.Render(fmt.Sprintf("\n  page %d/%d · %d products · a active-filter", pg.Page, maxInt(pg.Pages, 1), pg.Total)))
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
