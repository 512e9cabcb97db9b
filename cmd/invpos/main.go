// Package main provides the invpos CLI entrypoint.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yogamuz/inventory-pos/internal/tui"
)

var (
	version = "0.1.0"
	plain   = false
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "invpos",
		Short: "Inventory point-of-sale console",
		Long: `invpos: terminal console for the inventory backend.

Usage modes:
  invpos             Start the interactive console (dashboard, products, stock, history)
  invpos <command>   Run a single command (see below)

Use 'invpos login' to sign in; the session persists across runs.
Use 'invpos status' to show connection and session state.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain {
				color.NoColor = true
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			runConsole()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Plain output without color")

	rootCmd.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "inventory", Title: "Inventory:"},
		&cobra.Group{ID: "runtime", Title: "Runtime:"},
	)

	login := loginCmd()
	login.GroupID = "account"
	rootCmd.AddCommand(login)

	logout := logoutCmd()
	logout.GroupID = "account"
	rootCmd.AddCommand(logout)

	whoami := whoamiCmd()
	whoami.GroupID = "account"
	rootCmd.AddCommand(whoami)

	forgot := forgotPasswordCmd()
	forgot.GroupID = "account"
	rootCmd.AddCommand(forgot)

	reset := resetPasswordCmd()
	reset.GroupID = "account"
	rootCmd.AddCommand(reset)

	products := productsCmd()
	products.GroupID = "inventory"
	rootCmd.AddCommand(products)

	history := historyCmd()
	history.GroupID = "inventory"
	rootCmd.AddCommand(history)

	status := statusCmd()
	status.GroupID = "runtime"
	rootCmd.AddCommand(status)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("invpos %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole() {
	a, err := newApp()
	if err != nil {
		fatalError(err)
	}
	defer a.Close()

	model := tui.New(tui.Deps{
		Cfg:      a.cfg,
		API:      a.api,
		Session:  a.sess,
		Guard:    a.guard,
		Products: a.products,
		Stock:    a.stock,
		History:  a.history,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fatalError(err)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection and session state",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			fmt.Printf("Backend:  %s\n", a.cfg.BaseURL)
			fmt.Printf("Data dir: %s\n", a.cfg.DataDir)

			snap := a.sess.Snapshot()
			if snap.IsAuthenticated {
				fmt.Printf("Session:  %s\n", a.out.User(snap.User))
			} else {
				fmt.Println("Session:  not signed in")
			}
		},
	}
}
