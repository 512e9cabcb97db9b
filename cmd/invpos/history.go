package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Stock mutation history commands",
	}

	// invpos history list
	var (
		page, limit   int
		product, kind string
		today         bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stock mutations",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			result, err := a.api.ListHistory(context.Background(), api.HistoryQuery{
				Page:        page,
				Limit:       limit,
				ProductName: product,
				Type:        domain.MutationType(kind),
				Today:       today,
			})
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.History(result.History, result.Pagination))
		},
	}
	listCmd.Flags().IntVar(&page, "page", 1, "Page number")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (0 uses the configured default)")
	listCmd.Flags().StringVarP(&product, "product", "p", "", "Filter by product name")
	listCmd.Flags().StringVarP(&kind, "type", "t", "", "Filter by type (restock|sale|adjustment)")
	listCmd.Flags().BoolVar(&today, "today", false, "Only today's mutations")

	// invpos history stats
	var statsToday bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show mutation aggregates",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			s, err := a.api.HistoryStats(context.Background(), statsToday)
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.HistoryStats(*s, statsToday))
		},
	}
	statsCmd.Flags().BoolVar(&statsToday, "today", false, "Only today's mutations")

	// invpos history product <id>
	productCmd := &cobra.Command{
		Use:   "product <id>",
		Short: "List mutations for one product",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			result, err := a.api.HistoryByProduct(context.Background(), args[0], api.HistoryQuery{
				Page:  page,
				Limit: limit,
			})
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.History(result.History, result.Pagination))
		},
	}
	productCmd.Flags().IntVar(&page, "page", 1, "Page number")
	productCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (0 uses the configured default)")

	// invpos history export
	var (
		days int
		out  string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the history spreadsheet",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			f, err := os.Create(out)
			if err != nil {
				fatalError(err)
			}

			if err := a.api.ExportHistory(context.Background(), days, f); err != nil {
				f.Close()
				os.Remove(out)
				fatalError(err)
			}
			if err := f.Close(); err != nil {
				fatalError(err)
			}
			fmt.Printf("Wrote %s\n", out)
		},
	}
	exportCmd.Flags().IntVar(&days, "days", 30, "How many days back to include")
	exportCmd.Flags().StringVarP(&out, "out", "o", "stock-history.xlsx", "Output file")

	cmd.AddCommand(listCmd, statsCmd, productCmd, exportCmd)
	return cmd
}
