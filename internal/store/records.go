// ABOUTME: Personal record storage module: PR upserts driven by workout saves.
// ABOUTME: One PR per (user, normalized exercise name); higher weight wins, then reps.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/storage"
)

// UpsertPersonalRecords compares the workout's best completed sets against the
// stored records and writes the improvements. Returns the records that changed.
// Runs inside the workout save transaction; the caller queues the sync entries.
func (s *Store) UpsertPersonalRecords(ctx context.Context, w *models.WorkoutLog) ([]models.PersonalRecord, error) {
	var updated []models.PersonalRecord

	for i := range w.Exercises {
		e := &w.Exercises[i]
		best := models.BestSet(e.Sets)
		if best == nil {
			continue
		}
		name := models.NormalizeExerciseName(e.Name)

		rows, err := s.db.Execute(ctx,
			"SELECT * FROM personal_records WHERE user_id = ? AND exercise_name = ?",
			w.UserID, name)
		if err != nil {
			return nil, fmt.Errorf("lookup record for %s: %w", name, err)
		}

		var pr *models.PersonalRecord
		if len(rows) > 0 {
			cur := scanRecord(rows[0])
			if !models.BeatsRecord(best.Weight, best.Reps, cur.Weight, cur.Reps) {
				continue
			}
			pr = cur
		} else {
			pr = &models.PersonalRecord{
				ID:           uuid.New(),
				UserID:       w.UserID,
				ExerciseName: name,
				CreatedAt:    nowTime(),
			}
		}

		pr.Weight = best.Weight
		pr.Reps = best.Reps
		pr.WorkoutLogID = w.ID
		pr.AchievedOn = w.Date
		pr.UpdatedAt = nowTime()

		if err := s.upsertRow(ctx, storage.TablePersonalRecords, recordRow(pr)); err != nil {
			return nil, fmt.Errorf("save record for %s: %w", name, err)
		}
		updated = append(updated, *pr)
	}
	return updated, nil
}

// GetPersonalRecords returns the user's records ordered by exercise name.
// Read failures degrade to an empty list.
func (s *Store) GetPersonalRecords(ctx context.Context, userID string) []models.PersonalRecord {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM personal_records WHERE user_id = ? ORDER BY exercise_name", userID)
	if err != nil {
		s.logger.Printf("list records: %v", err)
		return nil
	}
	out := make([]models.PersonalRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanRecord(r))
	}
	return out
}

// GetPersonalRecord returns the user's record for one exercise, or ErrNotFound.
func (s *Store) GetPersonalRecord(ctx context.Context, userID, exerciseName string) (*models.PersonalRecord, error) {
	name := models.NormalizeExerciseName(exerciseName)
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM personal_records WHERE user_id = ? AND exercise_name = ?", userID, name)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanRecord(rows[0]), nil
}

func recordRow(pr *models.PersonalRecord) map[string]any {
	return map[string]any{
		"id":             pr.ID.String(),
		"user_id":        pr.UserID,
		"exercise_name":  pr.ExerciseName,
		"weight":         pr.Weight,
		"reps":           pr.Reps,
		"workout_log_id": pr.WorkoutLogID.String(),
		"achieved_on":    pr.AchievedOn,
		"created_at":     fmtTime(pr.CreatedAt),
		"updated_at":     fmtTime(pr.UpdatedAt),
	}
}

func scanRecord(r storage.Row) *models.PersonalRecord {
	return &models.PersonalRecord{
		ID:           r.UUID("id"),
		UserID:       r.String("user_id"),
		ExerciseName: r.String("exercise_name"),
		Weight:       r.Float("weight"),
		Reps:         r.Int("reps"),
		WorkoutLogID: r.UUID("workout_log_id"),
		AchievedOn:   r.String("achieved_on"),
		CreatedAt:    r.Time("created_at"),
		UpdatedAt:    r.Time("updated_at"),
	}
}
