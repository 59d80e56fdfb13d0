// ABOUTME: CLI commands for personal records, achievements, and exercise catalog.
// ABOUTME: Top-level 'pr', 'achievements', and 'exercise' commands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/catalog"
	"github.com/harperreed/fittrack/internal/models"
)

var prCmd = &cobra.Command{
	Use:   "pr [exercise]",
	Short: "Show personal records",
	Long: `Show personal records, one per exercise.

With an exercise name, show only that record.

Examples:
  fittrack pr
  fittrack pr "bench press"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			pr, err := st.GetPersonalRecord(cmd.Context(), currentUser.ID, args[0])
			if err != nil {
				fmt.Printf("No record for %s yet.\n", args[0])
				return nil
			}
			fmt.Printf("%s: %.1f x %d (on %s)\n", pr.ExerciseName, pr.Weight, pr.Reps, pr.AchievedOn)
			return nil
		}

		records := st.GetPersonalRecords(cmd.Context(), currentUser.ID)
		if len(records) == 0 {
			fmt.Println("No personal records yet. Log a workout!")
			return nil
		}

		faint := color.New(color.Faint)
		for _, pr := range records {
			fmt.Printf("%s %6.1f x %-3d %s\n",
				padRight(pr.ExerciseName, 24), pr.Weight, pr.Reps, faint.Sprint(pr.AchievedOn))
		}
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "Show achievement progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st.RecomputeAchievements(cmd.Context(), currentUser.ID)
		achievements := st.ListAchievements(cmd.Context(), currentUser.ID)
		if len(achievements) == 0 {
			fmt.Println("No achievements yet. Log a workout!")
			return nil
		}

		for _, a := range achievements {
			if a.Unlocked {
				color.Green("🏆 %s (%.0f/%.0f)", padRight(a.Key, 16), a.Current, a.Target)
			} else {
				fmt.Printf("   %s (%.0f/%.0f)\n", padRight(a.Key, 16), a.Current, a.Target)
			}
		}

		dates := st.WorkoutDates(cmd.Context(), currentUser.ID)
		fmt.Printf("\nCurrent streak: %d days (longest %d)\n",
			models.CurrentStreak(dates, models.Today()), models.LongestStreak(dates))
		return nil
	},
}

var (
	exerciseMuscle    string
	exerciseEquipment string
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Browse and extend the exercise catalog",
	Long: `Browse the exercise catalog and define custom exercises.

COMMANDS:

  list     List all exercises (built-in + custom)
  search   Search by name fragment
  add      Define a custom exercise`,
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the exercise catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.New(st)
		for _, e := range cat.List(cmd.Context(), currentUser.ID) {
			tag := ""
			if e.Custom {
				tag = " (custom)"
			}
			fmt.Printf("%s %s%s\n", padRight(e.Name, 28), e.MuscleGroup, tag)
		}
		return nil
	},
}

var exerciseSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the exercise catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.New(st)
		results := cat.Search(cmd.Context(), currentUser.ID, args[0])
		if len(results) == 0 {
			fmt.Println("No matching exercises.")
			return nil
		}
		for _, e := range results {
			fmt.Printf("%s %s\n", padRight(e.Name, 28), e.MuscleGroup)
		}
		return nil
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Define a custom exercise",
	Long: `Define a custom exercise for the catalog.

Example:
  fittrack exercise add "Zercher Squat" --muscle legs --equipment barbell`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewCustomExercise(currentUser.ID, args[0], exerciseMuscle)
		e.Equipment = exerciseEquipment

		if err := st.SaveCustomExercise(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to save exercise: %w", err)
		}
		color.Green("✓ Added %s to the catalog", e.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVar(&exerciseMuscle, "muscle", "", "muscle group")
	exerciseAddCmd.Flags().StringVar(&exerciseEquipment, "equipment", "", "equipment")

	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseSearchCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)

	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(exerciseCmd)
}
