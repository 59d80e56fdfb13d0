// ABOUTME: Workout storage module: save/load/list/delete training sessions.
// ABOUTME: Saves are atomic replace-children writes; lists batch-load in two queries.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// WorkoutPage is one page of a workout listing.
type WorkoutPage struct {
	Workouts []models.WorkoutLog
	Total    int
	HasMore  bool
}

// SaveWorkout writes a workout and its exercises and sets atomically, then
// refreshes personal records touched by its completed sets. Existing children
// are replaced wholesale so removed exercises do not linger. Errors propagate:
// losing a logged workout is not acceptable.
func (s *Store) SaveWorkout(ctx context.Context, w *models.WorkoutLog) ([]models.PersonalRecord, error) {
	w.UpdatedAt = nowTime()

	var newRecords []models.PersonalRecord
	err := s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.upsertRow(ctx, storage.TableWorkoutLogs, workoutRow(w)); err != nil {
			return err
		}
		// Replace children: cascade removes the old sets too.
		if err := s.db.Run(ctx,
			"DELETE FROM exercise_logs WHERE workout_log_id = ?", w.ID.String()); err != nil {
			return err
		}
		for i := range w.Exercises {
			e := &w.Exercises[i]
			if err := s.upsertRow(ctx, storage.TableExerciseLogs, exerciseRow(e)); err != nil {
				return err
			}
			for j := range e.Sets {
				if err := s.upsertRow(ctx, storage.TableSetLogs, setRow(&e.Sets[j])); err != nil {
					return err
				}
			}
		}

		records, err := s.UpsertPersonalRecords(ctx, w)
		if err != nil {
			return err
		}
		newRecords = records
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save workout: %w", err)
	}

	s.enqueueWorkout(ctx, w)
	for i := range newRecords {
		s.enqueue(ctx, storage.TablePersonalRecords, newRecords[i].ID.String(),
			outbox.OpUpsert, recordRow(&newRecords[i]))
	}
	return newRecords, nil
}

// enqueueWorkout records the workout and all children for sync, parents first.
func (s *Store) enqueueWorkout(ctx context.Context, w *models.WorkoutLog) {
	s.enqueue(ctx, storage.TableWorkoutLogs, w.ID.String(), outbox.OpUpsert, workoutRow(w))
	for i := range w.Exercises {
		e := &w.Exercises[i]
		s.enqueue(ctx, storage.TableExerciseLogs, e.ID.String(), outbox.OpUpsert, exerciseRow(e))
		for j := range e.Sets {
			set := &e.Sets[j]
			s.enqueue(ctx, storage.TableSetLogs, set.ID.String(), outbox.OpUpsert, setRow(set))
		}
	}
}

// GetWorkout loads a workout with its exercises and sets, or ErrNotFound.
func (s *Store) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutLog, error) {
	rows, err := s.db.Execute(ctx, "SELECT * FROM workout_logs WHERE id = ?", id.String())
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	w := scanWorkout(rows[0])
	workouts := []models.WorkoutLog{*w}
	if err := s.loadWorkoutChildren(ctx, workouts); err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return &workouts[0], nil
}

// ListWorkouts returns a page of the user's workouts, newest date first.
// Read failures degrade to an empty page.
func (s *Store) ListWorkouts(ctx context.Context, userID string, limit, offset int) WorkoutPage {
	if limit <= 0 {
		limit = 20
	}

	countRows, err := s.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM workout_logs WHERE user_id = ?", userID)
	if err != nil {
		s.logger.Printf("count workouts: %v", err)
		return WorkoutPage{}
	}
	total := 0
	if len(countRows) > 0 {
		total = countRows[0].Int("n")
	}

	rows, err := s.db.Execute(ctx,
		"SELECT * FROM workout_logs WHERE user_id = ? ORDER BY date DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		s.logger.Printf("list workouts: %v", err)
		return WorkoutPage{}
	}

	workouts := make([]models.WorkoutLog, 0, len(rows))
	for _, r := range rows {
		workouts = append(workouts, *scanWorkout(r))
	}
	if err := s.loadWorkoutChildren(ctx, workouts); err != nil {
		s.logger.Printf("load workout children: %v", err)
		return WorkoutPage{}
	}

	return WorkoutPage{
		Workouts: workouts,
		Total:    total,
		HasMore:  offset+len(workouts) < total,
	}
}

// GetWorkoutsInRange returns workouts in [from, to] inclusive, ascending by
// date. Dates are YYYY-MM-DD so string comparison is chronological.
func (s *Store) GetWorkoutsInRange(ctx context.Context, userID, from, to string) []models.WorkoutLog {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM workout_logs WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to)
	if err != nil {
		s.logger.Printf("workouts in range: %v", err)
		return nil
	}

	workouts := make([]models.WorkoutLog, 0, len(rows))
	for _, r := range rows {
		workouts = append(workouts, *scanWorkout(r))
	}
	if err := s.loadWorkoutChildren(ctx, workouts); err != nil {
		s.logger.Printf("load workout children: %v", err)
		return nil
	}
	return workouts
}

// WorkoutDates returns the distinct dates the user trained, for streaks.
func (s *Store) WorkoutDates(ctx context.Context, userID string) []string {
	rows, err := s.db.Execute(ctx,
		"SELECT date FROM workout_logs WHERE user_id = ? ORDER BY date", userID)
	if err != nil {
		s.logger.Printf("workout dates: %v", err)
		return nil
	}
	dates := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		d := r.String("date")
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates
}

// DeleteWorkout removes a workout. Children go with it via cascade locally;
// explicit child deletes are queued so the remote cascades the same way.
func (s *Store) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	w, err := s.GetWorkout(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.Run(ctx, "DELETE FROM workout_logs WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	for i := range w.Exercises {
		e := &w.Exercises[i]
		for j := range e.Sets {
			s.enqueue(ctx, storage.TableSetLogs, e.Sets[j].ID.String(), outbox.OpDelete, nil)
		}
		s.enqueue(ctx, storage.TableExerciseLogs, e.ID.String(), outbox.OpDelete, nil)
	}
	s.enqueue(ctx, storage.TableWorkoutLogs, id.String(), outbox.OpDelete, nil)
	return nil
}

// GetLastExercisePerformance returns the most recent exercise log (with sets)
// matching the normalized name, for "what did I lift last time" lookups.
// excludeWorkoutID skips the workout currently being edited; pass uuid.Nil to
// consider every session.
func (s *Store) GetLastExercisePerformance(ctx context.Context, userID, exerciseName string, excludeWorkoutID uuid.UUID) *models.ExerciseLog {
	name := models.NormalizeExerciseName(exerciseName)
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM exercise_logs WHERE user_id = ? AND name = ?", userID, name)
	if err != nil {
		s.logger.Printf("last performance: %v", err)
		return nil
	}

	candidates := make([]*models.ExerciseLog, 0, len(rows))
	var workoutIDs []string
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		e := scanExercise(r)
		if e.WorkoutLogID == excludeWorkoutID {
			continue
		}
		candidates = append(candidates, e)
		if !seen[e.WorkoutLogID] {
			seen[e.WorkoutLogID] = true
			workoutIDs = append(workoutIDs, e.WorkoutLogID.String())
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Rank candidates by their workout's date; created_at breaks same-day ties.
	sortKey := make(map[uuid.UUID]string, len(workoutIDs))
	for _, ids := range chunk(workoutIDs, chunkSize) {
		query := fmt.Sprintf(
			"SELECT id, date, created_at FROM workout_logs WHERE id IN (%s)",
			placeholders(len(ids)))
		wrows, err := s.db.Execute(ctx, query, toAnySlice(ids)...)
		if err != nil {
			s.logger.Printf("last performance workouts: %v", err)
			return nil
		}
		for _, r := range wrows {
			sortKey[r.UUID("id")] = r.String("date") + "|" + r.String("created_at")
		}
	}

	var best *models.ExerciseLog
	var bestKey string
	for _, e := range candidates {
		key, ok := sortKey[e.WorkoutLogID]
		if !ok {
			continue
		}
		if best == nil || key > bestKey {
			best, bestKey = e, key
		}
	}
	if best == nil {
		return nil
	}

	srows, err := s.db.Execute(ctx,
		"SELECT * FROM set_logs WHERE exercise_log_id = ? ORDER BY order_index", best.ID.String())
	if err != nil {
		s.logger.Printf("last performance sets: %v", err)
		return best
	}
	for _, r := range srows {
		best.Sets = append(best.Sets, *scanSet(r))
	}
	return best
}

// loadWorkoutChildren populates Exercises and Sets for all workouts with
// exactly two queries per id chunk. Rows are grouped into maps first and
// attached only after both passes: holding a pointer into a slice that is
// still being appended to would dangle once the slice reallocates.
func (s *Store) loadWorkoutChildren(ctx context.Context, workouts []models.WorkoutLog) error {
	if len(workouts) == 0 {
		return nil
	}

	workoutIDs := make([]string, len(workouts))
	for i := range workouts {
		workoutIDs[i] = workouts[i].ID.String()
	}

	exercisesByWorkout := make(map[uuid.UUID][]models.ExerciseLog, len(workouts))
	var exerciseIDs []string
	for _, ids := range chunk(workoutIDs, chunkSize) {
		query := fmt.Sprintf(
			"SELECT * FROM exercise_logs WHERE workout_log_id IN (%s) ORDER BY order_index",
			placeholders(len(ids)))
		rows, err := s.db.Execute(ctx, query, toAnySlice(ids)...)
		if err != nil {
			return err
		}
		for _, r := range rows {
			e := scanExercise(r)
			exercisesByWorkout[e.WorkoutLogID] = append(exercisesByWorkout[e.WorkoutLogID], *e)
			exerciseIDs = append(exerciseIDs, e.ID.String())
		}
	}

	setsByExercise := make(map[uuid.UUID][]models.SetLog, len(exerciseIDs))
	for _, ids := range chunk(exerciseIDs, chunkSize) {
		query := fmt.Sprintf(
			"SELECT * FROM set_logs WHERE exercise_log_id IN (%s) ORDER BY order_index",
			placeholders(len(ids)))
		rows, err := s.db.Execute(ctx, query, toAnySlice(ids)...)
		if err != nil {
			return err
		}
		for _, r := range rows {
			set := scanSet(r)
			setsByExercise[set.ExerciseLogID] = append(setsByExercise[set.ExerciseLogID], *set)
		}
	}

	for i := range workouts {
		exercises := exercisesByWorkout[workouts[i].ID]
		for j := range exercises {
			exercises[j].Sets = setsByExercise[exercises[j].ID]
		}
		workouts[i].Exercises = exercises
	}
	return nil
}

func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func workoutRow(w *models.WorkoutLog) map[string]any {
	row := map[string]any{
		"id":         w.ID.String(),
		"user_id":    w.UserID,
		"date":       w.Date,
		"name":       w.Name,
		"created_at": fmtTime(w.CreatedAt),
		"updated_at": fmtTime(w.UpdatedAt),
	}
	row["notes"] = nullableString(w.Notes)
	row["duration_minutes"] = nullableInt(w.DurationMinutes)
	return row
}

func exerciseRow(e *models.ExerciseLog) map[string]any {
	return map[string]any{
		"id":             e.ID.String(),
		"workout_log_id": e.WorkoutLogID.String(),
		"user_id":        e.UserID,
		"name":           e.Name,
		"order_index":    e.OrderIndex,
	}
}

func setRow(set *models.SetLog) map[string]any {
	return map[string]any{
		"id":              set.ID.String(),
		"exercise_log_id": set.ExerciseLogID.String(),
		"user_id":         set.UserID,
		"order_index":     set.OrderIndex,
		"reps":            set.Reps,
		"weight":          set.Weight,
		"rpe":             nullableFloat(set.RPE),
		"completed":       boolToInt(set.Completed),
	}
}

func scanWorkout(r storage.Row) *models.WorkoutLog {
	return &models.WorkoutLog{
		ID:              r.UUID("id"),
		UserID:          r.String("user_id"),
		Date:            r.String("date"),
		Name:            r.String("name"),
		Notes:           r.NullString("notes"),
		DurationMinutes: r.NullInt("duration_minutes"),
		CreatedAt:       r.Time("created_at"),
		UpdatedAt:       r.Time("updated_at"),
	}
}

func scanExercise(r storage.Row) *models.ExerciseLog {
	return &models.ExerciseLog{
		ID:           r.UUID("id"),
		WorkoutLogID: r.UUID("workout_log_id"),
		UserID:       r.String("user_id"),
		Name:         r.String("name"),
		OrderIndex:   r.Int("order_index"),
	}
}

func scanSet(r storage.Row) *models.SetLog {
	return &models.SetLog{
		ID:            r.UUID("id"),
		ExerciseLogID: r.UUID("exercise_log_id"),
		UserID:        r.String("user_id"),
		OrderIndex:    r.Int("order_index"),
		Reps:          r.Int("reps"),
		Weight:        r.Float("weight"),
		RPE:           r.NullFloat("rpe"),
		Completed:     r.Bool("completed"),
	}
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
