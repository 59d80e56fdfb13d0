// ABOUTME: CLI commands for logging and managing workouts.
// ABOUTME: Supports log, from-template, list, show, last, and delete subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

var (
	workoutDate      string
	workoutDuration  int
	workoutNotes     string
	workoutExercises []string
	workoutLimit     int
	workoutPage      int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track training sessions with exercises, sets, reps, and weight.

EXERCISE SYNTAX:

  Each --exercise flag takes "Name:set,set,..." where a set is REPSxWEIGHT
  with an optional @RPE suffix:

    "Bench Press:8x80,8x80,6x85"
    "Deadlift:5x140@8.5"

COMMANDS:

  log             Log a workout
  from-template   Log a workout pre-filled from a template
  list            List recent workouts
  show            View one workout with all sets
  last            Show the last performance of an exercise
  delete          Delete a workout`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log <name>",
	Short: "Log a workout",
	Long: `Log a completed workout.

Examples:
  fittrack workout log "Push Day" -e "Bench Press:8x80,8x80,6x85" -e "Dip:10x0,10x0"
  fittrack workout log "Legs" --date 2026-08-20 -e "Barbell Squat:5x120@8" --duration 55`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(workoutExercises) == 0 {
			return fmt.Errorf("at least one --exercise is required")
		}

		date := workoutDate
		if date == "" {
			date = models.Today()
		}

		w := models.NewWorkoutLog(currentUser.ID, date, args[0])
		if workoutDuration > 0 {
			w.WithDuration(workoutDuration)
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}
		for _, spec := range workoutExercises {
			if err := addExerciseFromSpec(w, spec); err != nil {
				return err
			}
		}

		records, err := st.SaveWorkout(cmd.Context(), w)
		if err != nil {
			return fmt.Errorf("failed to save workout: %w", err)
		}
		unlocked := st.RecomputeAchievements(cmd.Context(), currentUser.ID)

		color.Green("✓ Logged %s on %s", w.Name, w.Date)
		fmt.Printf("  ID: %s\n", w.ID.String()[:8])
		fmt.Printf("  Volume: %.0f\n", w.TotalVolume())
		for _, r := range records {
			color.Yellow("  ★ New PR: %s %.1f x %d", r.ExerciseName, r.Weight, r.Reps)
		}
		for _, a := range unlocked {
			color.Yellow("  🏆 Achievement unlocked: %s", a.Key)
		}
		return nil
	},
}

var workoutFromTemplateCmd = &cobra.Command{
	Use:   "from-template <name>",
	Short: "Log a workout from a template",
	Long: `Log a workout pre-filled from a saved template.

The template's target sets are created as planned (not completed) sets; edit
and re-save, or log as-is when you performed exactly the targets.

Example:
  fittrack workout from-template "Push Day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := st.GetTemplateByName(cmd.Context(), currentUser.ID, args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}

		date := workoutDate
		if date == "" {
			date = models.Today()
		}

		w := t.Instantiate(date)
		// Logging from the CLI means it was performed as written.
		for i := range w.Exercises {
			for j := range w.Exercises[i].Sets {
				w.Exercises[i].Sets[j].Completed = true
			}
		}

		records, err := st.SaveWorkout(cmd.Context(), w)
		if err != nil {
			return fmt.Errorf("failed to save workout: %w", err)
		}
		st.RecomputeAchievements(cmd.Context(), currentUser.ID)

		color.Green("✓ Logged %s on %s from template", w.Name, w.Date)
		fmt.Printf("  ID: %s\n", w.ID.String()[:8])
		for _, r := range records {
			color.Yellow("  ★ New PR: %s %.1f x %d", r.ExerciseName, r.Weight, r.Reps)
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset := workoutPage * workoutLimit
		page := st.ListWorkouts(cmd.Context(), currentUser.ID, workoutLimit, offset)
		if len(page.Workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range page.Workouts {
			duration := ""
			if w.DurationMinutes != nil {
				duration = fmt.Sprintf("%d min", *w.DurationMinutes)
			}
			fmt.Printf("%s %s %s %2d exercises %s\n",
				faint.Sprint(w.ID.String()[:8]),
				faint.Sprint(w.Date),
				padRight(w.Name, 16),
				len(w.Exercises),
				duration)
		}
		if page.HasMore {
			faint.Printf("… %d more (use --page %d)\n", page.Total-offset-len(page.Workouts), workoutPage+1)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Workout: %s (%s)\n", w.Name, w.ID.String()[:8])
		fmt.Printf("Date: %s\n", w.Date)
		if w.DurationMinutes != nil {
			fmt.Printf("Duration: %d min\n", *w.DurationMinutes)
		}
		if w.Notes != nil {
			fmt.Printf("Notes: %s\n", *w.Notes)
		}
		fmt.Printf("Volume: %.0f\n", w.TotalVolume())

		for _, e := range w.Exercises {
			fmt.Printf("\n%s:\n", e.Name)
			for _, set := range e.Sets {
				mark := "✓"
				if !set.Completed {
					mark = "·"
				}
				line := fmt.Sprintf("  %s %d x %.1f", mark, set.Reps, set.Weight)
				if set.RPE != nil {
					line += fmt.Sprintf(" @%.1f", *set.RPE)
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

var workoutLastCmd = &cobra.Command{
	Use:   "last <exercise>",
	Short: "Show the last performance of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := st.GetLastExercisePerformance(cmd.Context(), currentUser.ID, args[0], uuid.Nil)
		if e == nil {
			fmt.Printf("No logged sets for %s.\n", args[0])
			return nil
		}

		fmt.Printf("Last %s:\n", e.Name)
		for _, set := range e.Sets {
			fmt.Printf("  %d x %.1f\n", set.Reps, set.Weight)
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(cmd, args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteWorkout(cmd.Context(), w.ID); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		color.Green("✓ Deleted workout %s", w.ID.String()[:8])
		return nil
	},
}

// findWorkout resolves an id prefix to a workout by scanning recent pages.
func findWorkout(cmd *cobra.Command, idOrPrefix string) (*models.WorkoutLog, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return st.GetWorkout(cmd.Context(), id)
	}

	page := st.ListWorkouts(cmd.Context(), currentUser.ID, 500, 0)
	for i := range page.Workouts {
		if strings.HasPrefix(page.Workouts[i].ID.String(), idOrPrefix) {
			return &page.Workouts[i], nil
		}
	}
	return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
}

// addExerciseFromSpec parses "Name:8x80,6x85@9" into an exercise with sets.
func addExerciseFromSpec(w *models.WorkoutLog, spec string) error {
	name, sets, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return fmt.Errorf("invalid exercise %q (want \"Name:REPSxWEIGHT,...\")", spec)
	}

	e := w.AddExercise(strings.TrimSpace(name))
	for _, part := range strings.Split(sets, ",") {
		part = strings.TrimSpace(part)
		var rpe float64
		if body, tail, found := strings.Cut(part, "@"); found {
			v, err := strconv.ParseFloat(tail, 64)
			if err != nil {
				return fmt.Errorf("invalid RPE in %q", part)
			}
			rpe = v
			part = body
		}

		repsStr, weightStr, found := strings.Cut(part, "x")
		if !found {
			return fmt.Errorf("invalid set %q (want REPSxWEIGHT)", part)
		}
		reps, err := strconv.Atoi(strings.TrimSpace(repsStr))
		if err != nil {
			return fmt.Errorf("invalid reps in %q", part)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			return fmt.Errorf("invalid weight in %q", part)
		}

		set := e.AddSet(reps, weight)
		if rpe > 0 {
			set.WithRPE(rpe)
		}
	}
	return nil
}

func init() {
	workoutLogCmd.Flags().StringVar(&workoutDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	workoutLogCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutLogCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "workout notes")
	workoutLogCmd.Flags().StringArrayVarP(&workoutExercises, "exercise", "e", nil, "exercise spec, repeatable")

	workoutFromTemplateCmd.Flags().StringVar(&workoutDate, "date", "", "date (YYYY-MM-DD), defaults to today")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")
	workoutListCmd.Flags().IntVar(&workoutPage, "page", 0, "page number (0-based)")

	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutFromTemplateCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutLastCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
