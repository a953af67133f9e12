package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ademchenko/nutrimirror/internal/sync"
)

var (
	flagPageSize int
	flagOffset   int
	flagCursor   string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the product catalog",
	Long: `Search the product catalog across the local cache and the remote
store. With no query this lists the catalog alphabetically one page
at a time; pass --offset and --cursor from the previous page to
continue. With a query, all matches are returned in one shot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		page, err := tracker.Catalog.Search(cmd.Context(), query, sync.PageRequest{
			Size:         flagPageSize,
			Offset:       flagOffset,
			RemoteCursor: flagCursor,
		})
		if err != nil {
			return err
		}

		if len(page.Items) == 0 {
			fmt.Println("No products found.")
			return nil
		}
		for i := range page.Items {
			fmt.Println(productLine(&page.Items[i]))
		}
		if page.Degraded {
			fmt.Println("\n(remote store unreachable; showing local results only)")
		}
		if query == "" && page.HasMore {
			fmt.Printf("\nNext page: --offset %d --cursor %q\n",
				flagOffset+len(page.Items), page.NextRemoteCursor)
		}
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <product-id>",
	Short: "Look up one product by id (e.g. a scanned barcode)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := tracker.Catalog.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", rec.Name)
		if rec.Brand != "" {
			fmt.Printf("  brand:        %s\n", rec.Brand)
		}
		if rec.Manufacturer != "" {
			fmt.Printf("  manufacturer: %s\n", rec.Manufacturer)
		}
		fmt.Printf("  per 100g:     %s kcal, %sg protein, %sg fat, %sg carbs\n",
			formatNutrient(rec.EnergyKcal), formatNutrient(rec.Protein),
			formatNutrient(rec.Fat), formatNutrient(rec.Carbs))
		if len(rec.Allergens) > 0 {
			fmt.Printf("  allergens:    %v\n", rec.Allergens)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagPageSize, "size", 30, "page size for alphabetic listing")
	searchCmd.Flags().IntVar(&flagOffset, "offset", 0, "local offset from the previous page")
	searchCmd.Flags().StringVar(&flagCursor, "cursor", "", "remote cursor from the previous page")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(lookupCmd)
}
