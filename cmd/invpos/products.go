package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yogamuz/inventory-pos/internal/api"
	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/render"
	"github.com/yogamuz/inventory-pos/internal/resource"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "Product catalog and stock commands",
	}

	// invpos products list
	var (
		page, limit     int
		search, sortBy  string
		sortOrder       string
		active, deleted bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			q := api.ProductQuery{
				Page:      page,
				Limit:     limit,
				Search:    search,
				SortBy:    sortBy,
				SortOrder: sortOrder,
			}
			if active {
				t := true
				q.IsActive = &t
			}
			if deleted {
				f := false
				q.IsActive = &f
			}

			result, err := a.api.ListProducts(context.Background(), q)
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.Products(result.Products, result.Pagination))
		},
	}
	listCmd.Flags().IntVar(&page, "page", 1, "Page number")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (0 uses the configured default)")
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name")
	listCmd.Flags().StringVar(&sortBy, "sort", "createdAt", "Sort field (name|price|stock|createdAt)")
	listCmd.Flags().StringVar(&sortOrder, "order", "desc", "Sort order (asc|desc)")
	listCmd.Flags().BoolVar(&active, "active", false, "Only active products")
	listCmd.Flags().BoolVar(&deleted, "inactive", false, "Only inactive products")

	// invpos products get <id>
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
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

			p, err := a.api.GetProduct(context.Background(), args[0])
			if err != nil {
				fatalError(err)
			}
			printProduct(p)
		},
	}

	// invpos products create
	var (
		name     string
		price    float64
		stock    int
		inactive bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			isActive := !inactive
			in := domain.ProductInput{
				Name:     name,
				Price:    &price,
				Stock:    &stock,
				IsActive: &isActive,
			}
			p, err := a.api.CreateProduct(context.Background(), in)
			if err != nil {
				fatalError(err)
			}
			fmt.Printf("Created %s\n", p.ID)
			printProduct(p)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Product name")
	createCmd.Flags().Float64Var(&price, "price", 0, "Unit price")
	createCmd.Flags().IntVar(&stock, "stock", 0, "Initial stock")
	createCmd.Flags().BoolVar(&inactive, "inactive", false, "Create as inactive")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("price")

	// invpos products update <id>
	var (
		upName   string
		upPrice  float64
		upActive bool
	)
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update name, price or active flag",
		Long:  "Stock is never updated here; use restock, sale or adjust so the change is recorded in history.",
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

			var in domain.ProductInput
			if cmd.Flags().Changed("name") {
				in.Name = upName
			}
			if cmd.Flags().Changed("price") {
				in.Price = &upPrice
			}
			if cmd.Flags().Changed("active") {
				in.IsActive = &upActive
			}

			p, err := a.api.UpdateProduct(context.Background(), args[0], in)
			if err != nil {
				fatalError(err)
			}
			printProduct(p)
		},
	}
	updateCmd.Flags().StringVar(&upName, "name", "", "New name")
	updateCmd.Flags().Float64Var(&upPrice, "price", 0, "New unit price")
	updateCmd.Flags().BoolVar(&upActive, "active", true, "Active flag")

	// invpos products delete <id>
	var hard bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Deactivate a product (or remove it permanently with --hard)",
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

			ctx := context.Background()
			if hard {
				if err := a.api.HardDeleteProduct(ctx, args[0]); err != nil {
					fatalError(err)
				}
				fmt.Println("Permanently deleted")
				return
			}
			if err := a.api.DeleteProduct(ctx, args[0]); err != nil {
				fatalError(err)
			}
			fmt.Println("Deactivated")
		},
	}
	deleteCmd.Flags().BoolVar(&hard, "hard", false, "Remove permanently instead of deactivating")

	// invpos products restock <id> <quantity>
	restockCmd := &cobra.Command{
		Use:   "restock <id> <quantity>",
		Short: "Add stock",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			quantity := parseIntArg(args[1], "quantity")
			if err := resource.ValidateRestock(quantity); err != nil {
				fatalError(err)
			}

			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			p, err := a.api.Restock(context.Background(), args[0], quantity)
			if err != nil {
				fatalError(err)
			}
			fmt.Printf("%s now has %d pcs\n", p.Name, p.Stock)
		},
	}

	// invpos products sale <id> <quantity>
	saleCmd := &cobra.Command{
		Use:   "sale <id> <quantity>",
		Short: "Record a sale",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			quantity := parseIntArg(args[1], "quantity")

			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			ctx := context.Background()
			current, err := a.api.GetProduct(ctx, args[0])
			if err != nil {
				fatalError(err)
			}
			if err := resource.ValidateSale(quantity, current.Stock); err != nil {
				fatalError(err)
			}

			p, err := a.api.RecordSale(ctx, args[0], quantity)
			if err != nil {
				fatalError(err)
			}
			fmt.Printf("Sold %d x %s, %d pcs left\n", quantity, p.Name, p.Stock)
		},
	}

	// invpos products adjust <id> <stock>
	var notes string
	adjustCmd := &cobra.Command{
		Use:   "adjust <id> <stock>",
		Short: "Set the absolute stock level",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			target := parseIntArg(args[1], "stock")
			if err := resource.ValidateAdjust(target); err != nil {
				fatalError(err)
			}

			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			p, err := a.api.AdjustStock(context.Background(), args[0], target, notes)
			if err != nil {
				fatalError(err)
			}
			fmt.Printf("%s adjusted to %d pcs\n", p.Name, p.Stock)
		},
	}
	adjustCmd.Flags().StringVar(&notes, "notes", "", "Reason for the adjustment")

	// invpos products stats
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show inventory aggregates",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			s, err := a.api.ProductStats(context.Background())
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.ProductStats(*s))
		},
	}

	// invpos products low-stock
	var threshold int
	lowCmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products at or under the threshold",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()
			if err := requireAuth(a); err != nil {
				fatalError(err)
			}

			if threshold <= 0 {
				threshold = a.cfg.LowStockThreshold
			}
			products, err := a.api.LowStock(context.Background(), threshold)
			if err != nil {
				fatalError(err)
			}
			fmt.Print(a.out.LowStock(products, threshold))
		},
	}
	lowCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Stock threshold (0 uses the configured default)")

	cmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, restockCmd, saleCmd, adjustCmd, statsCmd, lowCmd)
	return cmd
}

func printProduct(p *domain.Product) {
	status := "active"
	if !p.IsActive {
		status = "inactive"
	}
	fmt.Printf("%s\n", p.Name)
	fmt.Printf("  id:      %s\n", p.ID)
	fmt.Printf("  price:   %s\n", render.FormatPrice(p.Price))
	fmt.Printf("  stock:   %d pcs\n", p.Stock)
	fmt.Printf("  status:  %s\n", status)
	fmt.Printf("  updated: %s\n", render.Timestamp(p.UpdatedAt))
}

func parseIntArg(s, name string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fatalError(fmt.Errorf("%s must be a number, got %q", name, s))
	}
	return n
}
