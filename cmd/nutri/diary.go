package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ademchenko/nutrimirror/internal/model"
	"github.com/ademchenko/nutrimirror/internal/sync"
)

var (
	flagWeight float64
	flagDate   string
)

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Record and review what you ate",
}

var diaryAddCmd = &cobra.Command{
	Use:   "add <product query>",
	Short: "Add a consumed product to the diary",
	Long: `Add a consumed portion to the diary. The product is found by
catalog search; when several products match you pick one
interactively. The entry is mirrored to the cloud store, and kept
on-device when its date falls inside the local write window.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}
		date, err := parseUserDate(flagDate)
		if err != nil {
			return err
		}
		if flagWeight <= 0 {
			return fmt.Errorf("--weight must be a positive number of grams")
		}

		product, err := pickProduct(cmd, args[0])
		if err != nil {
			return err
		}

		entry, err := tracker.AddToDiary(cmd.Context(), product, flagWeight, user, date)
		if err != nil {
			// The local write may still have succeeded; say so.
			if entry != nil {
				fmt.Printf("Recorded locally; cloud sync failed: %v\n", err)
				return nil
			}
			return err
		}

		fmt.Printf("Added %.0fg of %s on %s\n", entry.Weight, entry.ProductName, entry.Date)
		return nil
	},
}

var diaryEditCmd = &cobra.Command{
	Use:   "edit <product-id>",
	Short: "Correct the weight of an existing diary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}
		date, err := parseUserDate(flagDate)
		if err != nil {
			return err
		}
		if flagWeight <= 0 {
			return fmt.Errorf("--weight must be a positive number of grams")
		}

		entry := &model.ConsumptionEntry{
			UserID:    user,
			ProductID: args[0],
			Date:      date,
			Weight:    flagWeight,
		}
		if err := tracker.Ledger.UpdateWeight(cmd.Context(), entry, flagWeight); err != nil {
			return err
		}
		fmt.Printf("Updated %s on %s to %.0fg\n", args[0], date, flagWeight)
		return nil
	},
}

var diaryRmCmd = &cobra.Command{
	Use:   "rm <product-id>",
	Short: "Delete a diary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}
		date, err := parseUserDate(flagDate)
		if err != nil {
			return err
		}

		entry := &model.ConsumptionEntry{
			UserID:    user,
			ProductID: args[0],
			Date:      date,
			// Weight is irrelevant for a delete; identity is the key.
			Weight: 1,
		}
		if err := tracker.Ledger.DeleteConsumption(cmd.Context(), entry); err != nil {
			return err
		}
		fmt.Printf("Deleted %s on %s\n", args[0], date)
		return nil
	},
}

var (
	flagFrom string
	flagTo   string
)

var diaryWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the diary for a date range (default: last 7 days)",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}

		end := model.Today()
		start := end.AddDays(-6)
		if flagFrom != "" {
			if start, err = parseUserDate(flagFrom); err != nil {
				return err
			}
		}
		if flagTo != "" {
			if end, err = parseUserDate(flagTo); err != nil {
				return err
			}
		}

		week, err := tracker.Ledger.ConsumptionForRange(cmd.Context(), user, start, end)
		if err != nil {
			return err
		}

		if len(week.Entries) == 0 {
			fmt.Printf("Nothing logged between %s and %s.\n", start, end)
			return nil
		}

		var day model.Date
		for i := range week.Entries {
			e := &week.Entries[i]
			if e.Date != day {
				day = e.Date
				fmt.Printf("\n%s\n", day)
			}
			fmt.Printf("  %-40s %6.0fg\n", e.ProductName, e.Weight)
		}
		if week.Degraded {
			fmt.Println("\n(remote store unreachable; some days may be missing)")
		}
		return nil
	},
}

// pickProduct searches the catalog and lets the user choose when
// several products match.
func pickProduct(cmd *cobra.Command, query string) (*model.ProductRecord, error) {
	page, err := tracker.Catalog.Search(cmd.Context(), query, sync.PageRequest{Size: 10})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, fmt.Errorf("no products match %q", query)
	}
	if len(page.Items) == 1 {
		return &page.Items[0], nil
	}

	options := make([]huh.Option[int], 0, len(page.Items))
	for i := range page.Items {
		options = append(options, huh.NewOption(productLine(&page.Items[i]), i))
	}

	var picked int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title(fmt.Sprintf("%d products match %q", len(page.Items), query)).
			Options(options...).
			Value(&picked),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	return &page.Items[picked], nil
}

func init() {
	diaryAddCmd.Flags().Float64Var(&flagWeight, "weight", 0, "consumed weight in grams")
	diaryAddCmd.Flags().StringVar(&flagDate, "date", "", `date ("today", "yesterday", 2024-06-01)`)
	_ = diaryAddCmd.MarkFlagRequired("weight")

	diaryEditCmd.Flags().Float64Var(&flagWeight, "weight", 0, "corrected weight in grams")
	diaryEditCmd.Flags().StringVar(&flagDate, "date", "", "date of the entry to correct")
	_ = diaryEditCmd.MarkFlagRequired("weight")

	diaryRmCmd.Flags().StringVar(&flagDate, "date", "", "date of the entry to delete")

	diaryWeekCmd.Flags().StringVar(&flagFrom, "from", "", "range start")
	diaryWeekCmd.Flags().StringVar(&flagTo, "to", "", "range end")

	diaryCmd.AddCommand(diaryAddCmd)
	diaryCmd.AddCommand(diaryEditCmd)
	diaryCmd.AddCommand(diaryRmCmd)
	diaryCmd.AddCommand(diaryWeekCmd)
	rootCmd.AddCommand(diaryCmd)
}
