// ABOUTME: Tests for personal record comparison and best-set selection.
// ABOUTME: Higher weight wins; at equal weight, higher reps wins; ties never beat.
package models

import "testing"

func TestBeatsRecord(t *testing.T) {
	tests := []struct {
		name      string
		weight    float64
		reps      int
		curWeight float64
		curReps   int
		want      bool
	}{
		{"heavier wins", 105, 1, 100, 5, true},
		{"lighter loses", 95, 12, 100, 5, false},
		{"equal weight more reps wins", 100, 6, 100, 5, true},
		{"equal weight fewer reps loses", 100, 4, 100, 5, false},
		{"exact tie does not beat", 100, 5, 100, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BeatsRecord(tt.weight, tt.reps, tt.curWeight, tt.curReps)
			if got != tt.want {
				t.Errorf("BeatsRecord(%v, %d vs %v, %d) = %v, want %v",
					tt.weight, tt.reps, tt.curWeight, tt.curReps, got, tt.want)
			}
		})
	}
}

func TestBestSetPicksByTieBreak(t *testing.T) {
	sets := []SetLog{
		{Reps: 8, Weight: 80, Completed: true},
		{Reps: 5, Weight: 90, Completed: true},
		{Reps: 6, Weight: 90, Completed: true},
	}
	best := BestSet(sets)
	if best == nil {
		t.Fatal("expected a best set")
	}
	if best.Weight != 90 || best.Reps != 6 {
		t.Errorf("best = %v x %d, want 90 x 6", best.Weight, best.Reps)
	}
}

func TestBestSetSkipsUncompleted(t *testing.T) {
	sets := []SetLog{
		{Reps: 3, Weight: 120, Completed: false},
		{Reps: 8, Weight: 80, Completed: true},
	}
	best := BestSet(sets)
	if best == nil {
		t.Fatal("expected a best set")
	}
	if best.Weight != 80 {
		t.Errorf("uncompleted set must not win: got %v", best.Weight)
	}

	if BestSet([]SetLog{{Reps: 3, Weight: 120, Completed: false}}) != nil {
		t.Error("all-uncompleted exercise should have no best set")
	}
}

func TestNormalizeExerciseName(t *testing.T) {
	if got := NormalizeExerciseName("  Bench Press "); got != "bench press" {
		t.Errorf("normalized = %q", got)
	}
}
