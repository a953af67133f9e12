package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite products",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Mark or unmark a product as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}

		nowFav, err := tracker.Favorites.Toggle(cmd.Context(), args[0], user)
		if err != nil {
			// The local set already flipped; the mirror catches up
			// on the next successful push.
			fmt.Printf("Saved locally; cloud sync failed: %v\n", err)
		}
		if nowFav {
			fmt.Printf("%s is now a favorite\n", args[0])
		} else {
			fmt.Printf("%s is no longer a favorite\n", args[0])
		}
		return nil
	},
}

var (
	flagFavSize int
	flagFavPage int
)

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite products",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}

		ids, err := tracker.Favorites.AllIDs(cmd.Context(), user)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}

		records, err := tracker.Favorites.ByPage(cmd.Context(), ids, flagFavSize, flagFavPage)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("No favorites on page %d.\n", flagFavPage)
			return nil
		}
		for i := range records {
			fmt.Println(productLine(&records[i]))
		}
		return nil
	},
}

func init() {
	favListCmd.Flags().IntVar(&flagFavSize, "size", 30, "page size")
	favListCmd.Flags().IntVar(&flagFavPage, "page", 0, "page index")

	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)
	rootCmd.AddCommand(favCmd)
}
