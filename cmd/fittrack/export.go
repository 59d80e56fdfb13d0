// ABOUTME: CLI command for exporting fitness data as JSON.
// ABOUTME: Full dump of the current user's data, suitable for backup.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

var (
	exportOutput string
	exportSince  string
)

// allDatesFrom is the range start used when no --since is given.
const allDatesFrom = "0001-01-01"

type exportFile struct {
	ExportedAt string                  `json:"exported_at"`
	User       *models.User            `json:"user"`
	Workouts   []models.WorkoutLog     `json:"workouts"`
	Nutrition  []models.DailyNutrition `json:"nutrition"`
	Steps      []models.DailySteps     `json:"steps"`
	Weights    []models.DailyWeight    `json:"weights"`
	Records    []models.PersonalRecord `json:"personal_records"`
	Templates  []models.WorkoutTemplate `json:"templates"`
	Presets    []models.FoodPreset     `json:"presets"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export fitness data as JSON",
	Long: `Export all fitness data as JSON.

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include dated data since this date (YYYY-MM-DD)

EXAMPLES:

  fittrack export                       # Export all data
  fittrack export -o backup.json        # Save to file
  fittrack export --since 2026-01-01    # This year only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := allDatesFrom
		if exportSince != "" {
			if _, err := time.Parse(models.DateFormat, exportSince); err != nil {
				return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
			}
			from = exportSince
		}
		to := "9999-12-31"

		ctx := cmd.Context()
		out := exportFile{
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
			User:       currentUser,
			Workouts:   st.GetWorkoutsInRange(ctx, currentUser.ID, from, to),
			Nutrition:  st.GetNutritionInRange(ctx, currentUser.ID, from, to),
			Steps:      st.GetStepsInRange(ctx, currentUser.ID, from, to),
			Weights:    st.GetWeightsInRange(ctx, currentUser.ID, from, to),
			Records:    st.GetPersonalRecords(ctx, currentUser.ID),
			Templates:  st.ListTemplates(ctx, currentUser.ID),
			Presets:    st.ListPresets(ctx, currentUser.ID, 0),
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
}
