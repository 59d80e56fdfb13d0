// ABOUTME: CLI commands for daily step and body weight records.
// ABOUTME: Top-level 'steps' and 'weight' commands with range views.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

func daysAgo(n int) string {
	return models.DateOf(time.Now().AddDate(0, 0, -n))
}

var (
	dailyDate string
	dailyDays int
)

var stepsCmd = &cobra.Command{
	Use:   "steps [count]",
	Short: "Log or view daily step counts",
	Long: `Log today's step count, or view recent days with no argument.

Examples:
  fittrack steps 9200
  fittrack steps 11000 --date 2026-08-20
  fittrack steps --days 14`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return showSteps(cmd)
		}

		count, err := strconv.Atoi(args[0])
		if err != nil || count < 0 {
			return fmt.Errorf("invalid step count: %s", args[0])
		}

		date := dailyDate
		if date == "" {
			date = models.Today()
		}

		st.SaveSteps(cmd.Context(), models.NewDailySteps(currentUser.ID, date, count))
		color.Green("✓ Recorded %d steps for %s", count, date)
		if currentUser.StepTarget > 0 && count >= currentUser.StepTarget {
			color.Yellow("  Target of %d reached!", currentUser.StepTarget)
		}
		return nil
	},
}

func showSteps(cmd *cobra.Command) error {
	from := daysAgo(dailyDays)
	records := st.GetStepsInRange(cmd.Context(), currentUser.ID, from, models.Today())
	if len(records) == 0 {
		fmt.Println("No step records yet.")
		return nil
	}

	for _, r := range records {
		marker := ""
		if currentUser.StepTarget > 0 && r.Count >= currentUser.StepTarget {
			marker = " ✓"
		}
		fmt.Printf("%s %6d%s\n", r.Date, r.Count, marker)
	}
	return nil
}

var weightCmd = &cobra.Command{
	Use:   "weight [value]",
	Short: "Log or view body weight",
	Long: `Log today's body weight, or view recent entries with no argument.

Examples:
  fittrack weight 82.5
  fittrack weight 83.1 --date 2026-08-20
  fittrack weight --days 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return showWeights(cmd)
		}

		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil || value <= 0 {
			return fmt.Errorf("invalid weight: %s", args[0])
		}

		date := dailyDate
		if date == "" {
			date = models.Today()
		}

		if err := st.SaveWeight(cmd.Context(), models.NewDailyWeight(currentUser.ID, date, value)); err != nil {
			return fmt.Errorf("failed to save weight: %w", err)
		}
		color.Green("✓ Recorded %.1f for %s", value, date)
		return nil
	},
}

func showWeights(cmd *cobra.Command) error {
	from := daysAgo(dailyDays)
	records := st.GetWeightsInRange(cmd.Context(), currentUser.ID, from, models.Today())
	if len(records) == 0 {
		fmt.Println("No weight records yet.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s %6.1f\n", r.Date, r.Weight)
	}
	if len(records) >= 2 {
		delta := records[len(records)-1].Weight - records[0].Weight
		fmt.Printf("\nChange over period: %+.1f\n", delta)
	}
	return nil
}

func init() {
	stepsCmd.Flags().StringVar(&dailyDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	stepsCmd.Flags().IntVar(&dailyDays, "days", 7, "days of history to show")

	weightCmd.Flags().StringVar(&dailyDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	weightCmd.Flags().IntVar(&dailyDays, "days", 30, "days of history to show")

	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(weightCmd)
}
