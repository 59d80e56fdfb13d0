// ABOUTME: Achievement storage module: badges recomputed from stored aggregates.
// ABOUTME: Unlocks are monotonic; recomputation never re-locks a badge.
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// achievementTargets maps each badge key to its unlock threshold.
var achievementTargets = []struct {
	Key    string
	Target float64
}{
	{models.AchFirstWorkout, 1},
	{models.AchWorkouts10, 10},
	{models.AchWorkouts50, 50},
	{models.AchWorkouts100, 100},
	{models.AchStreak7, 7},
	{models.AchStreak30, 30},
	{models.AchVolume10k, 10_000},
	{models.AchVolume100k, 100_000},
	{models.AchRecords5, 5},
	{models.AchRecords25, 25},
}

// RecomputeAchievements refreshes every badge from current aggregates and
// returns the ones this pass unlocked. Failures are logged and swallowed:
// badges are derived data and the next recompute heals them.
func (s *Store) RecomputeAchievements(ctx context.Context, userID string) []models.Achievement {
	counts, err := s.achievementInputs(ctx, userID)
	if err != nil {
		s.logger.Printf("achievement inputs: %v", err)
		return nil
	}

	existing := make(map[string]*models.Achievement)
	for _, a := range s.ListAchievements(ctx, userID) {
		a := a
		existing[a.Key] = &a
	}

	var unlocked []models.Achievement
	for _, def := range achievementTargets {
		a := existing[def.Key]
		if a == nil {
			a = models.NewAchievement(userID, def.Key, def.Target)
		}
		justUnlocked := a.Progress(counts[def.Key])

		if err := s.upsertRow(ctx, storage.TableAchievements, achievementRow(a)); err != nil {
			s.logger.Printf("save achievement %s: %v", def.Key, err)
			continue
		}
		s.enqueue(ctx, storage.TableAchievements, a.ID.String(), outbox.OpUpsert, achievementRow(a))
		if justUnlocked {
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}

// achievementInputs gathers the aggregate each badge key is measured against.
func (s *Store) achievementInputs(ctx context.Context, userID string) (map[string]float64, error) {
	var workoutCount int
	rows, err := s.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM workout_logs WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("count workouts: %w", err)
	}
	if len(rows) > 0 {
		workoutCount = rows[0].Int("n")
	}

	var recordCount int
	rows, err = s.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM personal_records WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if len(rows) > 0 {
		recordCount = rows[0].Int("n")
	}

	var volume float64
	setRows, err := s.db.Execute(ctx,
		"SELECT weight, reps FROM set_logs WHERE user_id = ? AND completed = 1", userID)
	if err != nil {
		return nil, fmt.Errorf("sum volume: %w", err)
	}
	for _, r := range setRows {
		volume += r.Float("weight") * float64(r.Int("reps"))
	}

	dates := s.WorkoutDates(ctx, userID)
	longest := models.LongestStreak(dates)

	n := float64(workoutCount)
	return map[string]float64{
		models.AchFirstWorkout: n,
		models.AchWorkouts10:   n,
		models.AchWorkouts50:   n,
		models.AchWorkouts100:  n,
		models.AchStreak7:      float64(longest),
		models.AchStreak30:     float64(longest),
		models.AchVolume10k:    volume,
		models.AchVolume100k:   volume,
		models.AchRecords5:     float64(recordCount),
		models.AchRecords25:    float64(recordCount),
	}, nil
}

// ListAchievements returns the user's badges, unlocked first then by key.
// Read failures degrade to empty.
func (s *Store) ListAchievements(ctx context.Context, userID string) []models.Achievement {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM achievements WHERE user_id = ? ORDER BY key", userID)
	if err != nil {
		s.logger.Printf("list achievements: %v", err)
		return nil
	}
	out := make([]models.Achievement, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanAchievement(r))
	}
	return out
}

func achievementRow(a *models.Achievement) map[string]any {
	row := map[string]any{
		"id":         a.ID.String(),
		"user_id":    a.UserID,
		"key":        a.Key,
		"current":    a.Current,
		"target":     a.Target,
		"unlocked":   boolToInt(a.Unlocked),
		"updated_at": fmtTime(a.UpdatedAt),
	}
	if a.UnlockedAt != nil {
		row["unlocked_at"] = fmtTime(*a.UnlockedAt)
	} else {
		row["unlocked_at"] = nil
	}
	return row
}

func scanAchievement(r storage.Row) *models.Achievement {
	return &models.Achievement{
		ID:         r.UUID("id"),
		UserID:     r.String("user_id"),
		Key:        r.String("key"),
		Current:    r.Float("current"),
		Target:     r.Float("target"),
		Unlocked:   r.Bool("unlocked"),
		UnlockedAt: r.NullTime("unlocked_at"),
		UpdatedAt:  r.Time("updated_at"),
	}
}
