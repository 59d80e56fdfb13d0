// ABOUTME: CLI commands for logging meals and viewing daily nutrition.
// ABOUTME: Supports log, preset-based logging, day view, and meal deletion.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/store"
)

var (
	mealDate       string
	mealCalories   float64
	mealProtein    float64
	mealCarbs      float64
	mealFat        float64
	mealMultiplier float64
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Track meals and nutrition",
	Long: `Track meals with calories and macros.

One nutrition record exists per day; meals are appended to it. Presets let
you log a common food without re-typing its macros.

COMMANDS:

  log       Log a meal with explicit macros
  preset    Log a meal from a saved preset
  day       Show everything eaten on a date
  delete    Remove a meal from a day`,
}

var mealLogCmd = &cobra.Command{
	Use:   "log <name>",
	Short: "Log a meal",
	Long: `Log a meal with its macros.

Examples:
  fittrack meal log "Chicken and rice" --calories 650 --protein 45 --carbs 70 --fat 12
  fittrack meal log "Late snack" --calories 300 --date 2026-08-20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := mealDate
		if date == "" {
			date = models.Today()
		}

		n, err := st.GetNutrition(cmd.Context(), currentUser.ID, date)
		if err != nil {
			n = models.NewDailyNutrition(currentUser.ID, date)
		}
		n.AddMeal(args[0], mealCalories, mealProtein, mealCarbs, mealFat)

		if err := st.SaveNutrition(cmd.Context(), n); err != nil {
			return fmt.Errorf("failed to save meal: %w", err)
		}

		cals, protein, _, _ := n.Totals()
		color.Green("✓ Logged %s (%.0f kcal)", args[0], mealCalories)
		fmt.Printf("  Day total: %.0f kcal, %.0fg protein (target %d)\n",
			cals, protein, currentUser.CalorieTarget)
		return nil
	},
}

var mealPresetCmd = &cobra.Command{
	Use:   "preset <name> [multiplier]",
	Short: "Log a meal from a preset",
	Long: `Log a meal from a saved food preset, optionally scaled.

Examples:
  fittrack meal preset "Protein shake"
  fittrack meal preset Oatmeal 1.5`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		multiplier := mealMultiplier
		if len(args) == 2 {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid multiplier: %s", args[1])
			}
			multiplier = v
		}
		if multiplier <= 0 {
			multiplier = 1
		}

		preset, err := findPreset(cmd, args[0])
		if err != nil {
			return err
		}

		date := mealDate
		if date == "" {
			date = models.Today()
		}

		n, err := st.GetNutrition(cmd.Context(), currentUser.ID, date)
		if err != nil {
			n = models.NewDailyNutrition(currentUser.ID, date)
		}
		m := n.AddMeal("", 0, 0, 0, 0)
		m.FromPreset(preset, multiplier)

		if err := st.SaveNutrition(cmd.Context(), n); err != nil {
			return fmt.Errorf("failed to save meal: %w", err)
		}

		cals, _, _, _ := n.Totals()
		color.Green("✓ Logged %s x%.1f (%.0f kcal)", preset.Name, multiplier, m.Calories)
		fmt.Printf("  Day total: %.0f kcal\n", cals)
		return nil
	},
}

var mealDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show a day's nutrition",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := models.Today()
		if len(args) == 1 {
			date = args[0]
		}

		n, err := st.GetNutrition(cmd.Context(), currentUser.ID, date)
		if err != nil {
			fmt.Printf("Nothing logged on %s.\n", date)
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Printf("Nutrition for %s:\n\n", date)
		for _, m := range n.Meals {
			fmt.Printf("%s %s %5.0f kcal  P%.0f C%.0f F%.0f\n",
				faint.Sprint(m.ID.String()[:8]),
				padRight(m.Name, 24), m.Calories, m.Protein, m.Carbs, m.Fat)
		}

		cals, protein, carbs, fat := n.Totals()
		fmt.Printf("\nTotal: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
			cals, protein, carbs, fat)
		if currentUser.CalorieTarget > 0 {
			remaining := float64(currentUser.CalorieTarget) - cals
			if remaining >= 0 {
				fmt.Printf("Remaining: %.0f kcal of %d target\n", remaining, currentUser.CalorieTarget)
			} else {
				color.Yellow("Over target by %.0f kcal", -remaining)
			}
		}
		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := mealDate
		if date == "" {
			date = models.Today()
		}
		n, err := st.GetNutrition(cmd.Context(), currentUser.ID, date)
		if err != nil {
			return fmt.Errorf("nothing logged on %s", date)
		}

		for _, m := range n.Meals {
			if strings.HasPrefix(m.ID.String(), args[0]) {
				if err := st.DeleteMeal(cmd.Context(), m.ID); err != nil {
					return fmt.Errorf("failed to delete meal: %w", err)
				}
				color.Green("✓ Deleted %s", m.Name)
				return nil
			}
		}
		return fmt.Errorf("meal not found: %s", args[0])
	},
}

// findPreset resolves a preset by exact name, then by prefix search.
func findPreset(cmd *cobra.Command, name string) (*models.FoodPreset, error) {
	for _, p := range st.ListPresets(cmd.Context(), currentUser.ID, 0) {
		if strings.EqualFold(p.Name, name) {
			p := p
			return &p, nil
		}
	}
	matches := st.SearchPresets(cmd.Context(), currentUser.ID, name)
	if len(matches) == 1 {
		return &matches[0], nil
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.Name
		}
		return nil, fmt.Errorf("ambiguous preset %q: %s", name, strings.Join(names, ", "))
	}
	return nil, fmt.Errorf("preset not found: %s (%w)", name, store.ErrNotFound)
}

func init() {
	mealLogCmd.Flags().StringVar(&mealDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	mealLogCmd.Flags().Float64Var(&mealCalories, "calories", 0, "calories")
	mealLogCmd.Flags().Float64Var(&mealProtein, "protein", 0, "protein grams")
	mealLogCmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "carb grams")
	mealLogCmd.Flags().Float64Var(&mealFat, "fat", 0, "fat grams")

	mealPresetCmd.Flags().StringVar(&mealDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	mealPresetCmd.Flags().Float64Var(&mealMultiplier, "multiplier", 1, "serving multiplier")

	mealDeleteCmd.Flags().StringVar(&mealDate, "date", "", "date the meal was logged, defaults to today")

	mealCmd.AddCommand(mealLogCmd)
	mealCmd.AddCommand(mealPresetCmd)
	mealCmd.AddCommand(mealDayCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	rootCmd.AddCommand(mealCmd)
}
