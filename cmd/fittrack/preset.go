// ABOUTME: CLI commands for managing food presets.
// ABOUTME: Supports create, list, search, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

var (
	presetCalories float64
	presetProtein  float64
	presetCarbs    float64
	presetFat      float64
	presetUnit     string
	presetLimit    int
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage food presets",
	Long: `Manage reusable food presets.

A preset stores per-serving macros for a food you eat often. Log it with
'fittrack meal preset <name> [multiplier]'.`,
}

var presetCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a food preset",
	Long: `Create a food preset with per-serving macros.

Examples:
  fittrack preset create "Protein shake" --calories 220 --protein 40
  fittrack preset create Oatmeal --calories 380 --protein 13 --carbs 67 --fat 7 --unit bowl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.NewFoodPreset(currentUser.ID, args[0], presetCalories, presetProtein, presetCarbs, presetFat)
		if presetUnit != "" {
			p.ServingUnit = presetUnit
		}

		if err := st.CreatePreset(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to create preset: %w", err)
		}

		color.Green("✓ Created preset %s", p.Name)
		fmt.Printf("  Per %s: %.0f kcal, P%.0f C%.0f F%.0f\n",
			p.ServingUnit, p.Calories, p.Protein, p.Carbs, p.Fat)
		return nil
	},
}

var presetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List presets, most recently used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := st.ListPresets(cmd.Context(), currentUser.ID, presetLimit)
		if len(presets) == 0 {
			fmt.Println("No presets yet. Create one with 'fittrack preset create'.")
			return nil
		}

		for _, p := range presets {
			fmt.Printf("%s %5.0f kcal  P%.0f C%.0f F%.0f  per %s\n",
				padRight(p.Name, 24), p.Calories, p.Protein, p.Carbs, p.Fat, p.ServingUnit)
		}
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findPreset(cmd, args[0])
		if err != nil {
			return err
		}
		if err := st.DeletePreset(cmd.Context(), p.ID); err != nil {
			return fmt.Errorf("failed to delete preset: %w", err)
		}
		color.Green("✓ Deleted preset %s", p.Name)
		return nil
	},
}

func init() {
	presetCreateCmd.Flags().Float64Var(&presetCalories, "calories", 0, "calories per serving")
	presetCreateCmd.Flags().Float64Var(&presetProtein, "protein", 0, "protein grams per serving")
	presetCreateCmd.Flags().Float64Var(&presetCarbs, "carbs", 0, "carb grams per serving")
	presetCreateCmd.Flags().Float64Var(&presetFat, "fat", 0, "fat grams per serving")
	presetCreateCmd.Flags().StringVar(&presetUnit, "unit", "", "serving unit (default \"serving\")")

	presetListCmd.Flags().IntVarP(&presetLimit, "limit", "n", 50, "max number of results")

	presetCmd.AddCommand(presetCreateCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	rootCmd.AddCommand(presetCmd)
}
