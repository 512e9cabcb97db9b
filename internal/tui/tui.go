// Package tui provides the interactive inventory console using Bubble Tea.
// It is a thin rendering layer: all session and data state lives in the
// session service and the resource stores.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/config"
	"github.com/yogamuz/inventory-pos/internal/resource"
	"github.com/yogamuz/inventory-pos/internal/session"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// View identifies the active screen.
type View int

const (
	ViewLoading View = iota
	ViewLogin
	ViewDashboard
	ViewProducts
	ViewStock
	ViewHistory
)

// Deps are the collaborators the console renders. The TUI never owns state;
// it reads snapshots and issues store operations.
type Deps struct {
	Cfg      *config.Config
	API      *api.Client
	Session  *session.Service
	Guard    *session.Guard
	Products *resource.ProductStore
	Stock    *resource.StockStore
	History  *resource.HistoryStore
}

// Model is the root TUI model.
type Model struct {
	deps Deps

	view     View
	width    int
	height   int
	ready    bool
	quitting bool
	notice   string

	spinner spinner.Model

	login     loginModel
	products  productsModel
	stock     stockModel
	history   historyModel
	dashboard dashboardModel

	// searchCommits carries debounced search values from timer goroutines
	// back into the update loop.
	searchCommits chan searchCommit
	// unauthorized carries the gateway's 401 invalidation signal.
	unauthorized chan struct{}
}

// New creates the console model.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		deps:          deps,
		view:          ViewLoading,
		spinner:       s,
		searchCommits: make(chan searchCommit, 8),
		unauthorized:  make(chan struct{}, 1),
	}
	m.login = newLoginModel()
	m.products = newProductsModel(deps, m.searchCommits)
	m.stock = newStockModel(deps, m.searchCommits)
	m.history = newHistoryModel(deps, m.searchCommits)
	m.dashboard = newDashboardModel()

	unauthorized := m.unauthorized
	deps.API.SetUnauthorizedHook(func() {
		deps.Session.ClearUser(context.Background())
		select {
		case unauthorized <- struct{}{}:
		default:
		}
	})
	return m
}

// Init starts hydration and the channel listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		hydrateCmd(m.deps),
		waitSearchCommit(m.searchCommits),
		waitUnauthorized(m.unauthorized),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case hydratedMsg:
		return m.afterHydration()

	case sessionInvalidMsg:
		// 401 outside the auth boundary: back to login, once.
		m.gotoLogin("session expired, please sign in again")
		return m, waitUnauthorized(m.unauthorized)

	case authValidatedMsg:
		if msg.err != nil && m.view != ViewLogin {
			m.gotoLogin("")
		}
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case loggedOutMsg:
		m.gotoLogin("signed out")
		return m, nil

	case searchCommitMsg:
		cmds = append(cmds, m.applySearchCommit(msg), waitSearchCommit(m.searchCommits))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Per-view updates
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg, m.deps)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg, m.deps)
	case ViewProducts:
		m.products, cmd = m.products.Update(msg)
	case ViewStock:
		m.stock, cmd = m.stock.Update(msg)
	case ViewHistory:
		m.history, cmd = m.history.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleGlobalKey covers navigation and quit. Returns handled=false when the
// active view should see the key instead (e.g. while typing in an input).
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return tea.Quit, true
	}
	if m.view == ViewLoading || m.view == ViewLogin {
		return nil, false
	}
	if m.typing() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit, true
	case "1":
		m.gotoView(ViewDashboard)
		return fetchDashboardCmd(m.deps), true
	case "2":
		m.gotoView(ViewProducts)
		return fetchProductsCmd(m.deps), true
	case "3":
		m.gotoView(ViewStock)
		return fetchStockCmd(m.deps), true
	case "4":
		m.gotoView(ViewHistory)
		return fetchHistoryCmd(m.deps), true
	case "ctrl+l":
		return logoutCmd(m.deps), true
	}
	return nil, false
}

// typing reports whether the active view has a focused text input, so plain
// letter keys must reach it instead of triggering navigation.
func (m *Model) typing() bool {
	switch m.view {
	case ViewProducts:
		return m.products.search.Focused()
	case ViewStock:
		return m.stock.typing()
	case ViewHistory:
		return m.history.search.Focused()
	}
	return false
}

// afterHydration applies the guard's gating decision once hydration lands:
// the loading placeholder gives way to either login or the app plus a single
// background revalidation.
func (m Model) afterHydration() (tea.Model, tea.Cmd) {
	switch m.deps.Guard.Decide("dashboard") {
	case session.DecisionLoading:
		return m, nil
	case session.DecisionLogin:
		m.gotoLogin("")
		return m, nil
	}

	m.gotoView(ViewDashboard)
	return m, tea.Batch(
		revalidateCmd(m.deps),
		fetchDashboardCmd(m.deps),
	)
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.login.err = msg.err
		return m, nil
	}
	m.notice = ""
	// Return to wherever the guard stopped the user.
	switch m.deps.Guard.From("dashboard") {
	case "products":
		m.gotoView(ViewProducts)
		return m, fetchProductsCmd(m.deps)
	case "stock":
		m.gotoView(ViewStock)
		return m, fetchStockCmd(m.deps)
	case "history":
		m.gotoView(ViewHistory)
		return m, fetchHistoryCmd(m.deps)
	default:
		m.gotoView(ViewDashboard)
		return m, fetchDashboardCmd(m.deps)
	}
}

func (m *Model) gotoView(v View) {
	m.view = v
	m.deps.API.SetPublicView(false)
}

func (m *Model) gotoLogin(notice string) {
	m.view = ViewLogin
	m.notice = notice
	m.login = newLoginModel()
	m.login.focus()
	m.deps.API.SetPublicView(true)
}

func (m *Model) applySearchCommit(msg searchCommitMsg) tea.Cmd {
	switch msg.view {
	case ViewProducts:
		m.deps.Products.SetFilters(resource.Filters{resource.FilterSearch: msg.value})
		return fetchProductsCmd(m.deps)
	case ViewStock:
		m.deps.Stock.SetFilters(resource.Filters{resource.FilterSearch: msg.value})
		return fetchStockCmd(m.deps)
	case ViewHistory:
		m.deps.History.SetFilters(resource.Filters{resource.FilterProductName: msg.value})
		return fetchHistoryCmd(m.deps)
	}
	return nil
}

// View renders the active screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  starting..."
	}

	var body string
	switch m.view {
	case ViewLoading:
		body = fmt.Sprintf("\n  %s checking session...", m.spinner.View())
	case ViewLogin:
		body = m.login.View(m.notice)
	case ViewDashboard:
		body = m.dashboard.View()
	case ViewProducts:
		body = m.products.View(m.spinner)
	case ViewStock:
		body = m.stock.View(m.spinner)
	case ViewHistory:
		body = m.history.View(m.spinner)
	}

	if m.view == ViewLoading || m.view == ViewLogin {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
}

func (m Model) headerView() string {
	user := ""
	if snap := m.deps.Session.Snapshot(); snap.User != nil {
		user = snap.User.Username
	}
	tabs := []string{"1 dashboard", "2 products", "3 stock", "4 history"}
	active := int(m.view) - int(ViewDashboard)
	for i := range tabs {
		if i == active {
			tabs[i] = selectedStyle.Render(tabs[i])
		} else {
			tabs[i] = infoStyle.Render(tabs[i])
		}
	}
	return titleStyle.Render("invpos") + "  " +
		strings.Join(tabs, "  ") + "  " +
		statusBarStyle.Render(user)
}

func (m Model) footerView() string {
	return helpStyle.Render("  q quit · / search · n/p page · r refresh · ctrl+l logout")
}
