package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yogamuz/inventory-pos/internal/debounce"
	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/resource"
	invstrings "github.com/yogamuz/inventory-pos/internal/strings"
)

// adjustMode selects which stock operation the modal performs. The modes are
// mutually exclusive; switching one resets the other's working value.
type adjustMode int

const (
	modeAdjust adjustMode = iota
	modeSale
)

// stockModel shows active products with their stock level and hosts the
// adjust/sale modal.
type stockModel struct {
	deps        Deps
	search      textinput.Model
	debouncer   *debounce.Debouncer
	selectedIdx int

	modalOpen bool
	mode      adjustMode
	product   domain.Product
	stockIn   textinput.Model
	qtyIn     textinput.Model
	notesIn   textinput.Model
	modalErr  error
	applying  bool
}

func newStockModel(deps Deps, commits chan searchCommit) stockModel {
	search := textinput.New()
	search.Placeholder = "search stock"
	search.CharLimit = 64
	search.Width = 32

	d := debounce.New(deps.Cfg.SearchDebounce, func(value string) {
		commits <- searchCommit{view: ViewStock, value: value}
	})
	d.Seed(deps.Stock.Filters().Str(resource.FilterSearch))

	stockIn := textinput.New()
	stockIn.Placeholder = "new stock"
	stockIn.CharLimit = 8
	stockIn.Width = 10

	qtyIn := textinput.New()
	qtyIn.Placeholder = "quantity sold"
	qtyIn.CharLimit = 8
	qtyIn.Width = 10

	notesIn := textinput.New()
	notesIn.Placeholder = "notes (optional)"
	notesIn.CharLimit = 120
	notesIn.Width = 40

	return stockModel{
		deps:      deps,
		search:    search,
		debouncer: d,
		stockIn:   stockIn,
		qtyIn:     qtyIn,
		notesIn:   notesIn,
	}
}

func (s stockModel) typing() bool {
	return s.search.Focused() || s.modalOpen
}

func (s stockModel) Update(msg tea.Msg) (stockModel, tea.Cmd) {
	if done, ok := msg.(mutationDoneMsg); ok {
		s.applying = false
		if done.err != nil {
			s.modalErr = done.err
			return s, nil
		}
		s.closeModal()
		return s, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.modalOpen {
		return s.updateModal(key)
	}

	if s.search.Focused() {
		switch key.String() {
		case "esc":
			s.search.Blur()
			return s, nil
		case "enter":
			s.search.Blur()
			s.debouncer.Flush()
			return s, nil
		}
		var cmd tea.Cmd
		before := s.search.Value()
		s.search, cmd = s.search.Update(msg)
		if s.search.Value() != before {
			s.debouncer.Input(s.search.Value())
		}
		return s, cmd
	}

	switch key.String() {
	case "/":
		s.search.Focus()
		return s, textinput.Blink
	case "r":
		return s, fetchStockCmd(s.deps)
	case "n":
		pg := s.deps.Stock.Pagination()
		s.deps.Stock.SetPage(pg.Page + 1)
		return s, fetchStockCmd(s.deps)
	case "p":
		pg := s.deps.Stock.Pagination()
		s.deps.Stock.SetPage(pg.Page - 1)
		return s, fetchStockCmd(s.deps)
	case "up", "k":
		if s.selectedIdx > 0 {
			s.selectedIdx--
		}
	case "down", "j":
		if s.selectedIdx < len(s.deps.Stock.Items())-1 {
			s.selectedIdx++
		}
	case "enter":
		items := s.deps.Stock.Items()
		if s.selectedIdx < len(items) {
			s.openModal(items[s.selectedIdx])
		}
	}
	return s, nil
}

func (s *stockModel) openModal(p domain.Product) {
	s.modalOpen = true
	s.mode = modeAdjust
	s.product = p
	s.modalErr = nil
	s.stockIn.SetValue(strconv.Itoa(p.Stock))
	s.qtyIn.SetValue("")
	s.notesIn.SetValue("")
	s.stockIn.Focus()
	s.qtyIn.Blur()
	s.notesIn.Blur()
}

func (s *stockModel) closeModal() {
	s.modalOpen = false
	s.modalErr = nil
	s.stockIn.Blur()
	s.qtyIn.Blur()
	s.notesIn.Blur()
}

// setMode switches the modal operation and resets the other mode's working
// value so stale input can never leak into a submit.
func (s *stockModel) setMode(mode adjustMode) {
	if s.mode == mode {
		return
	}
	s.mode = mode
	s.modalErr = nil
	if mode == modeAdjust {
		s.qtyIn.SetValue("")
		s.qtyIn.Blur()
		s.stockIn.SetValue(strconv.Itoa(s.product.Stock))
		s.stockIn.Focus()
	} else {
		s.stockIn.SetValue("")
		s.stockIn.Blur()
		s.notesIn.Blur()
		s.qtyIn.SetValue("")
		s.qtyIn.Focus()
	}
}

func (s stockModel) updateModal(key tea.KeyMsg) (stockModel, tea.Cmd) {
	if s.applying {
		return s, nil
	}

	switch key.String() {
	case "esc":
		s.closeModal()
		return s, nil
	case "ctrl+a":
		s.setMode(modeAdjust)
		return s, nil
	case "ctrl+s":
		s.setMode(modeSale)
		return s, nil
	case "tab":
		if s.mode == modeAdjust {
			if s.stockIn.Focused() {
				s.stockIn.Blur()
				s.notesIn.Focus()
			} else {
				s.notesIn.Blur()
				s.stockIn.Focus()
			}
		}
		return s, nil
	case "enter":
		return s.submitModal()
	}

	var cmd tea.Cmd
	switch {
	case s.stockIn.Focused():
		s.stockIn, cmd = s.stockIn.Update(key)
	case s.qtyIn.Focused():
		s.qtyIn, cmd = s.qtyIn.Update(key)
	case s.notesIn.Focused():
		s.notesIn, cmd = s.notesIn.Update(key)
	}
	return s, cmd
}

func (s stockModel) submitModal() (stockModel, tea.Cmd) {
	deps := s.deps
	id := s.product.ID

	if s.mode == modeAdjust {
		stock, err := strconv.Atoi(strings.TrimSpace(s.stockIn.Value()))
		if err != nil {
			s.modalErr = fmt.Errorf("enter a number for the new stock value")
			return s, nil
		}
		notes := strings.TrimSpace(s.notesIn.Value())
		s.applying = true
		return s, func() tea.Msg {
			_, err := deps.Stock.Adjust(context.Background(), id, stock, notes)
			return mutationDoneMsg{err: err}
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(s.qtyIn.Value()))
	if err != nil {
		s.modalErr = fmt.Errorf("enter a number for the quantity sold")
		return s, nil
	}
	s.applying = true
	return s, func() tea.Msg {
		_, err := deps.Stock.RecordSale(context.Background(), id, qty)
		return mutationDoneMsg{err: err}
	}
}

func (s stockModel) View(sp spinner.Model) string {
	if s.modalOpen {
		return s.modalView()
	}

	var sb strings.Builder
	sb.WriteString("\n  " + s.search.View() + "\n\n")

	store := s.deps.Stock
	if store.Loading() {
		sb.WriteString(fmt.Sprintf("  %s loading stock...\n", sp.View()))
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
		line := fmt.Sprintf("%-32s %6d pcs", invstrings.Truncate(prod.Name, 32), prod.Stock)
		if i == s.selectedIdx {
			sb.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString("    " + line + "\n")
		}
	}

	pg := store.Pagination()
	sb.WriteString(infoStyle.Render(fmt.Sprintf("\n  page %d/%d · %d products · enter adjust/sale", pg.Page, maxInt(pg.Pages, 1), pg.Total)))
	return sb.String()
}

func (s stockModel) modalView() string {
	var sb strings.Builder

	title := "Adjust stock"
	if s.mode == modeSale {
		title = "Record sale"
	}
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", title, s.product.Name)) + "\n\n")
	sb.WriteString(fmt.Sprintf("  current stock: %d pcs\n\n", s.product.Stock))

	if s.mode == modeAdjust {
		sb.WriteString("  " + s.stockIn.View() + "\n")
		sb.WriteString("  " + s.notesIn.View() + "\n")
		if v, err := strconv.Atoi(strings.TrimSpace(s.stockIn.Value())); err == nil {
			sb.WriteString(infoStyle.Render(fmt.Sprintf("\n  delta: %+d\n", v-s.product.Stock)))
		}
	} else {
		sb.WriteString("  " + s.qtyIn.View() + "\n")
		if v, err := strconv.Atoi(strings.TrimSpace(s.qtyIn.Value())); err == nil {
			sb.WriteString(infoStyle.Render(fmt.Sprintf("\n  stock after sale: %d\n", s.product.Stock-v)))
		}
	}

	if s.applying {
		sb.WriteString("\n  applying...\n")
	}
	if s.modalErr != nil {
		sb.WriteString("\n  " + errorStyle.Render(s.modalErr.Error()) + "\n")
	}
	sb.WriteString(helpStyle.Render("\n  ctrl+a adjust · ctrl+s sale · enter apply · esc cancel"))
	return boxStyle.Render(sb.String())
}
