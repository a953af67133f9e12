package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Local catalog cache maintenance",
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local catalog cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := database.CountProducts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Cached products: %d\n", count)
		return nil
	},
}

var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe the local catalog cache",
	Long: `Wipe the local catalog cache. Products are re-fetched from the
remote store on demand; diary entries keep their product names and
are unaffected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Clear the local product cache?").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}

		if err := database.ClearProducts(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Catalog cache cleared.")
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogClearCmd)
	rootCmd.AddCommand(catalogCmd)
}
