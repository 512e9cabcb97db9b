package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

// Message types
type hydratedMsg struct{}
type authValidatedMsg struct{ err error }
type sessionInvalidMsg struct{}
type loginResultMsg struct{ err error }
type loggedOutMsg struct{ err error }
type productsFetchedMsg struct{ err error }
type stockFetchedMsg struct{ err error }
type historyFetchedMsg struct{ err error }
type mutationDoneMsg struct {
	err error
}
type dashboardMsg struct {
	stats    *domain.ProductStats
	today    domain.HistoryStats
	lowStock []domain.Product
	recent   []domain.HistoryEntry
	err      error
}

// searchCommit travels from a debouncer timer goroutine to the update loop.
type searchCommit struct {
	view  View
	value string
}
type searchCommitMsg searchCommit

func hydrateCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		_ = deps.Session.Hydrate(context.Background())
		return hydratedMsg{}
	}
}

// revalidateCmd runs the guard's one-shot session validation.
func revalidateCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return authValidatedMsg{err: deps.Guard.Revalidate(context.Background())}
	}
}

func loginCmd(deps Deps, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{err: deps.Session.Login(context.Background(), username, password)}
	}
}

func logoutCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: deps.Session.Logout(context.Background())}
	}
}

func fetchProductsCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return productsFetchedMsg{err: deps.Products.Fetch(context.Background())}
	}
}

func fetchStockCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return stockFetchedMsg{err: deps.Stock.Fetch(context.Background())}
	}
}

func fetchHistoryCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		deps.History.FetchStats(context.Background())
		return historyFetchedMsg{err: deps.History.Fetch(context.Background())}
	}
}

// fetchDashboardCmd gathers the four dashboard panels in one round.
func fetchDashboardCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := dashboardMsg{}

		stats, err := deps.API.ProductStats(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.stats = stats

		if today, err := deps.API.HistoryStats(ctx, true); err == nil {
			msg.today = *today
		}
		if low, err := deps.API.LowStock(ctx, deps.Cfg.LowStockThreshold); err == nil {
			msg.lowStock = low
		}
		if recent, err := deps.API.ListHistory(ctx, recentActivityQuery()); err == nil {
			msg.recent = recent.History
		}
		return msg
	}
}

func waitSearchCommit(ch chan searchCommit) tea.Cmd {
	return func() tea.Msg {
		return searchCommitMsg(<-ch)
	}
}

func waitUnauthorized(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return sessionInvalidMsg{}
	}
}
