// ABOUTME: WorkoutTemplate and ExerciseTemplate models, reusable workout blueprints.
// ABOUTME: Templates pre-populate a new WorkoutLog with target sets/reps/weight.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is a reusable workout blueprint.
type WorkoutTemplate struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Exercises []ExerciseTemplate
}

// NewWorkoutTemplate creates an empty template.
func NewWorkoutTemplate(userID, name string) *WorkoutTemplate {
	now := time.Now().UTC()
	return &WorkoutTemplate{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddExercise appends an exercise target with the next order index.
func (t *WorkoutTemplate) AddExercise(name string, sets, reps int, weight float64) *ExerciseTemplate {
	e := ExerciseTemplate{
		ID:           uuid.New(),
		TemplateID:   t.ID,
		UserID:       t.UserID,
		Name:         name,
		OrderIndex:   len(t.Exercises),
		TargetSets:   sets,
		TargetReps:   reps,
		TargetWeight: weight,
	}
	t.Exercises = append(t.Exercises, e)
	return &t.Exercises[len(t.Exercises)-1]
}

// Instantiate builds a WorkoutLog for the given date from the template.
func (t *WorkoutTemplate) Instantiate(date string) *WorkoutLog {
	w := NewWorkoutLog(t.UserID, date, t.Name)
	for _, te := range t.Exercises {
		e := w.AddExercise(te.Name)
		for i := 0; i < te.TargetSets; i++ {
			s := e.AddSet(te.TargetReps, te.TargetWeight)
			s.Completed = false
		}
	}
	return w
}

// ExerciseTemplate is one exercise target within a template.
type ExerciseTemplate struct {
	ID           uuid.UUID
	TemplateID   uuid.UUID
	UserID       string
	Name         string
	OrderIndex   int
	TargetSets   int
	TargetReps   int
	TargetWeight float64
}
