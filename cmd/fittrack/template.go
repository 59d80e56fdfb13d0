// ABOUTME: CLI commands for workout templates.
// ABOUTME: Supports create, list, show, and delete subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

var (
	templateNotes     string
	templateExercises []string
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Manage workout templates",
	Long: `Manage reusable workout templates.

EXERCISE SYNTAX:

  Each --exercise flag takes "Name:SETSxREPS@WEIGHT":

    "Bench Press:3x8@80"
    "Dip:3x10@0"

Start a workout from a template with 'fittrack workout from-template <name>'.`,
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workout template",
	Long: `Create a workout template with exercise targets.

Example:
  fittrack template create "Push Day" -e "Bench Press:3x8@80" -e "Overhead Press:3x10@40"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(templateExercises) == 0 {
			return fmt.Errorf("at least one --exercise is required")
		}

		t := models.NewWorkoutTemplate(currentUser.ID, args[0])
		if templateNotes != "" {
			t.Notes = &templateNotes
		}
		for _, spec := range templateExercises {
			if err := addTemplateExerciseFromSpec(t, spec); err != nil {
				return err
			}
		}

		if err := st.SaveTemplate(cmd.Context(), t); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		color.Green("✓ Created template %s (%d exercises)", t.Name, len(t.Exercises))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := st.ListTemplates(cmd.Context(), currentUser.ID)
		if len(templates) == 0 {
			fmt.Println("No templates yet. Create one with 'fittrack template create'.")
			return nil
		}

		for _, t := range templates {
			fmt.Printf("%s %d exercises\n", padRight(t.Name, 24), len(t.Exercises))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show template details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := st.GetTemplateByName(cmd.Context(), currentUser.ID, args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}

		fmt.Printf("Template: %s\n", t.Name)
		if t.Notes != nil {
			fmt.Printf("Notes: %s\n", *t.Notes)
		}
		fmt.Println()
		for _, e := range t.Exercises {
			fmt.Printf("  %s %dx%d @ %.1f\n", padRight(e.Name, 24), e.TargetSets, e.TargetReps, e.TargetWeight)
		}
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := st.GetTemplateByName(cmd.Context(), currentUser.ID, args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		if err := st.DeleteTemplate(cmd.Context(), t.ID); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted template %s", t.Name)
		return nil
	},
}

// addTemplateExerciseFromSpec parses "Name:3x8@80" into an exercise target.
func addTemplateExerciseFromSpec(t *models.WorkoutTemplate, spec string) error {
	name, target, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return fmt.Errorf("invalid exercise %q (want \"Name:SETSxREPS@WEIGHT\")", spec)
	}

	var weight float64
	if body, tail, found := strings.Cut(target, "@"); found {
		v, err := strconv.ParseFloat(strings.TrimSpace(tail), 64)
		if err != nil {
			return fmt.Errorf("invalid weight in %q", spec)
		}
		weight = v
		target = body
	}

	setsStr, repsStr, found := strings.Cut(target, "x")
	if !found {
		return fmt.Errorf("invalid target %q (want SETSxREPS)", target)
	}
	sets, err := strconv.Atoi(strings.TrimSpace(setsStr))
	if err != nil {
		return fmt.Errorf("invalid sets in %q", spec)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(repsStr))
	if err != nil {
		return fmt.Errorf("invalid reps in %q", spec)
	}

	t.AddExercise(strings.TrimSpace(name), sets, reps, weight)
	return nil
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateNotes, "notes", "n", "", "template notes")
	templateCreateCmd.Flags().StringArrayVarP(&templateExercises, "exercise", "e", nil, "exercise target, repeatable")

	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
