package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ademchenko/nutrimirror/internal/model"
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show nutrition totals for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}
		date, err := parseUserDate(flagProgressDate)
		if err != nil {
			return err
		}

		snap, err := tracker.Progress.ForDate(cmd.Context(), user, date)
		if err != nil {
			return err
		}

		printSnapshot(snap)
		return nil
	},
}

var progressWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the trailing 7-day nutrition summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userID()
		if err != nil {
			return err
		}

		week, err := tracker.Progress.FetchLastWeek(cmd.Context(), user)
		if err != nil {
			return err
		}

		if len(week.Days) == 0 {
			fmt.Println("No progress recorded in the last 7 days.")
			return nil
		}
		for i := range week.Days {
			s := &week.Days[i]
			line := fmt.Sprintf("%s  %5d kcal  %4dg protein  %4dg fat  %4dg carbs",
				s.Date, s.Calories, s.Protein, s.Fat, s.Carbs)
			if s.ViolationsCount > 0 {
				line += "  " + warnStyle.Render(fmt.Sprintf("%d violations", s.ViolationsCount))
			}
			fmt.Println(line)
		}
		if week.Degraded {
			fmt.Println("\n(remote store unreachable; showing cached days only)")
		}
		return nil
	},
}

var flagProgressDate string

func printSnapshot(s *model.ProgressSnapshot) {
	fmt.Printf("Progress for %s\n\n", s.Date)
	fmt.Printf("  calories  %s %d kcal\n", gauge(s.Calories, 2500), s.Calories)
	fmt.Printf("  protein   %s %d g\n", gauge(s.Protein, 120), s.Protein)
	fmt.Printf("  fat       %s %d g\n", gauge(s.Fat, 80), s.Fat)
	fmt.Printf("  carbs     %s %d g\n", gauge(s.Carbs, 300), s.Carbs)
	fmt.Printf("  sugar     %s %d g\n", gauge(s.Sugar, 50), s.Sugar)
	fmt.Printf("  salt      %s %d g\n", gauge(s.Salt, 6), s.Salt)

	if s.ViolationsCount > 0 {
		fmt.Printf("\n  %s", warnStyle.Render(fmt.Sprintf("%d restriction violations:", s.ViolationsCount)))
		for _, tag := range s.ViolatedTags {
			fmt.Printf(" %s", tag)
		}
		fmt.Println()
	}
}

// gauge renders a 20-cell bar of value against a reference amount.
func gauge(value, ref int) string {
	const width = 20
	filled := 0
	if ref > 0 {
		filled = value * width / ref
	}
	if filled > width {
		filled = width
	}
	return barStyle.Render(strings.Repeat("#", filled)) +
		trackStyle.Render(strings.Repeat(".", width-filled))
}

func init() {
	progressCmd.Flags().StringVar(&flagProgressDate, "date", "", `day to show ("today", "yesterday", 2024-06-01)`)
	progressCmd.AddCommand(progressWeekCmd)
	rootCmd.AddCommand(progressCmd)
}
