// ABOUTME: Exercise catalog: built-in exercises merged with user-defined ones.
// ABOUTME: Lookup and search are case-insensitive over normalized names.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/store"
)

// Exercise is one catalog entry, built-in or custom.
type Exercise struct {
	Name        string
	MuscleGroup string
	Equipment   string
	Custom      bool
}

// builtins is the stock exercise list shipped with the app.
var builtins = []Exercise{
	{Name: "Barbell Bench Press", MuscleGroup: "chest", Equipment: "barbell"},
	{Name: "Incline Dumbbell Press", MuscleGroup: "chest", Equipment: "dumbbell"},
	{Name: "Push Up", MuscleGroup: "chest", Equipment: "bodyweight"},
	{Name: "Cable Fly", MuscleGroup: "chest", Equipment: "cable"},
	{Name: "Barbell Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{Name: "Front Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{Name: "Leg Press", MuscleGroup: "legs", Equipment: "machine"},
	{Name: "Romanian Deadlift", MuscleGroup: "legs", Equipment: "barbell"},
	{Name: "Walking Lunge", MuscleGroup: "legs", Equipment: "dumbbell"},
	{Name: "Leg Curl", MuscleGroup: "legs", Equipment: "machine"},
	{Name: "Calf Raise", MuscleGroup: "legs", Equipment: "machine"},
	{Name: "Deadlift", MuscleGroup: "back", Equipment: "barbell"},
	{Name: "Pull Up", MuscleGroup: "back", Equipment: "bodyweight"},
	{Name: "Chin Up", MuscleGroup: "back", Equipment: "bodyweight"},
	{Name: "Barbell Row", MuscleGroup: "back", Equipment: "barbell"},
	{Name: "Dumbbell Row", MuscleGroup: "back", Equipment: "dumbbell"},
	{Name: "Lat Pulldown", MuscleGroup: "back", Equipment: "cable"},
	{Name: "Seated Cable Row", MuscleGroup: "back", Equipment: "cable"},
	{Name: "Overhead Press", MuscleGroup: "shoulders", Equipment: "barbell"},
	{Name: "Dumbbell Shoulder Press", MuscleGroup: "shoulders", Equipment: "dumbbell"},
	{Name: "Lateral Raise", MuscleGroup: "shoulders", Equipment: "dumbbell"},
	{Name: "Face Pull", MuscleGroup: "shoulders", Equipment: "cable"},
	{Name: "Barbell Curl", MuscleGroup: "arms", Equipment: "barbell"},
	{Name: "Dumbbell Curl", MuscleGroup: "arms", Equipment: "dumbbell"},
	{Name: "Hammer Curl", MuscleGroup: "arms", Equipment: "dumbbell"},
	{Name: "Tricep Pushdown", MuscleGroup: "arms", Equipment: "cable"},
	{Name: "Skull Crusher", MuscleGroup: "arms", Equipment: "barbell"},
	{Name: "Dip", MuscleGroup: "arms", Equipment: "bodyweight"},
	{Name: "Plank", MuscleGroup: "core", Equipment: "bodyweight"},
	{Name: "Hanging Leg Raise", MuscleGroup: "core", Equipment: "bodyweight"},
	{Name: "Cable Crunch", MuscleGroup: "core", Equipment: "cable"},
	{Name: "Ab Wheel Rollout", MuscleGroup: "core", Equipment: "wheel"},
}

// Catalog merges the built-in list with a user's custom exercises.
type Catalog struct {
	store *store.Store
}

// New creates a catalog backed by the given store.
func New(s *store.Store) *Catalog {
	return &Catalog{store: s}
}

// List returns all exercises available to the user, custom entries included,
// sorted by name. A custom exercise shadows a built-in with the same name.
func (c *Catalog) List(ctx context.Context, userID string) []Exercise {
	merged := make(map[string]Exercise, len(builtins))
	for _, e := range builtins {
		merged[models.NormalizeExerciseName(e.Name)] = e
	}
	for _, ce := range c.store.ListCustomExercises(ctx, userID) {
		merged[models.NormalizeExerciseName(ce.Name)] = Exercise{
			Name:        ce.Name,
			MuscleGroup: ce.MuscleGroup,
			Equipment:   ce.Equipment,
			Custom:      true,
		}
	}

	out := make([]Exercise, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search returns exercises whose name contains the query, case-insensitively.
func (c *Catalog) Search(ctx context.Context, userID, query string) []Exercise {
	q := models.NormalizeExerciseName(query)
	var out []Exercise
	for _, e := range c.List(ctx, userID) {
		if strings.Contains(models.NormalizeExerciseName(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds one exercise by exact normalized name.
func (c *Catalog) Lookup(ctx context.Context, userID, name string) (Exercise, bool) {
	target := models.NormalizeExerciseName(name)
	for _, e := range c.List(ctx, userID) {
		if models.NormalizeExerciseName(e.Name) == target {
			return e, true
		}
	}
	return Exercise{}, false
}

// MuscleGroups returns the distinct muscle groups in the user's catalog.
func (c *Catalog) MuscleGroups(ctx context.Context, userID string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.List(ctx, userID) {
		g := strings.ToLower(e.MuscleGroup)
		if g != "" && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
