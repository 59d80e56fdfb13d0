// ABOUTME: CLI command for viewing and editing the user profile.
// ABOUTME: Name, units, and daily calorie/step targets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/models"
)

var (
	profileName    string
	profileUnits   string
	profileCalTgt  int
	profileStepTgt int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or edit your profile",
	Long: `View or edit your profile and tracking targets.

Examples:
  fittrack profile
  fittrack profile --name Alex --units imperial
  fittrack profile --calorie-target 2400 --step-target 12000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := false
		if profileName != "" {
			currentUser.Name = profileName
			changed = true
		}
		if profileUnits != "" {
			if profileUnits != models.UnitsMetric && profileUnits != models.UnitsImperial {
				return fmt.Errorf("units must be %q or %q", models.UnitsMetric, models.UnitsImperial)
			}
			currentUser.Units = profileUnits
			changed = true
		}
		if profileCalTgt > 0 {
			currentUser.CalorieTarget = profileCalTgt
			changed = true
		}
		if profileStepTgt > 0 {
			currentUser.StepTarget = profileStepTgt
			changed = true
		}

		if changed {
			if err := st.SaveUser(cmd.Context(), currentUser); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}
			color.Green("✓ Profile updated")
		}

		fmt.Printf("Name: %s\n", currentUser.Name)
		fmt.Printf("Units: %s\n", currentUser.Units)
		fmt.Printf("Calorie target: %d\n", currentUser.CalorieTarget)
		fmt.Printf("Step target: %d\n", currentUser.StepTarget)
		if currentUser.IsLocal() {
			faint := color.New(color.Faint)
			faint.Println("Local-only account (sign in with 'fittrack sync login' to sync)")
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileCmd.Flags().StringVar(&profileUnits, "units", "", "metric or imperial")
	profileCmd.Flags().IntVar(&profileCalTgt, "calorie-target", 0, "daily calorie target")
	profileCmd.Flags().IntVar(&profileStepTgt, "step-target", 0, "daily step target")

	rootCmd.AddCommand(profileCmd)
}
