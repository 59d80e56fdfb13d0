// ABOUTME: WorkoutLog, ExerciseLog, and SetLog models for training sessions.
// ABOUTME: Order is preserved via explicit order indexes, not insertion order.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is a dated training session containing ordered exercises.
type WorkoutLog struct {
	ID              uuid.UUID
	UserID          string
	Date            string // YYYY-MM-DD
	Name            string
	Notes           *string
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Exercises       []ExerciseLog // Populated when fetching the full workout
}

// NewWorkoutLog creates a workout for the given user and date.
func NewWorkoutLog(userID, date, name string) *WorkoutLog {
	now := time.Now().UTC()
	return &WorkoutLog{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithNotes sets notes on the workout.
func (w *WorkoutLog) WithNotes(notes string) *WorkoutLog {
	w.Notes = &notes
	return w
}

// WithDuration sets the duration in minutes.
func (w *WorkoutLog) WithDuration(minutes int) *WorkoutLog {
	w.DurationMinutes = &minutes
	return w
}

// AddExercise appends an exercise with the next order index.
func (w *WorkoutLog) AddExercise(name string) *ExerciseLog {
	e := ExerciseLog{
		ID:           uuid.New(),
		WorkoutLogID: w.ID,
		UserID:       w.UserID,
		Name:         name,
		OrderIndex:   len(w.Exercises),
	}
	w.Exercises = append(w.Exercises, e)
	return &w.Exercises[len(w.Exercises)-1]
}

// ExerciseLog is one exercise within a workout, holding ordered sets.
type ExerciseLog struct {
	ID           uuid.UUID
	WorkoutLogID uuid.UUID
	UserID       string
	Name         string
	OrderIndex   int
	Sets         []SetLog
}

// AddSet appends a set with the next order index.
func (e *ExerciseLog) AddSet(reps int, weight float64) *SetLog {
	s := SetLog{
		ID:            uuid.New(),
		ExerciseLogID: e.ID,
		UserID:        e.UserID,
		OrderIndex:    len(e.Sets),
		Reps:          reps,
		Weight:        weight,
		Completed:     true,
	}
	e.Sets = append(e.Sets, s)
	return &e.Sets[len(e.Sets)-1]
}

// SetLog is a single set: reps at a weight, optionally with RPE.
type SetLog struct {
	ID            uuid.UUID
	ExerciseLogID uuid.UUID
	UserID        string
	OrderIndex    int
	Reps          int
	Weight        float64
	RPE           *float64
	Completed     bool
}

// WithRPE sets the rate of perceived exertion.
func (s *SetLog) WithRPE(rpe float64) *SetLog {
	s.RPE = &rpe
	return s
}

// TotalVolume sums weight x reps across all completed sets of the workout.
func (w *WorkoutLog) TotalVolume() float64 {
	var total float64
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			if s.Completed {
				total += s.Weight * float64(s.Reps)
			}
		}
	}
	return total
}
