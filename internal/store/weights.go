// ABOUTME: Body weight storage module, one record per user per date.
// ABOUTME: Weight writes propagate errors; a manual weigh-in must not vanish silently.
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// SaveWeight records body weight for a date, replacing any earlier entry for
// the same day while keeping its id.
func (s *Store) SaveWeight(ctx context.Context, d *models.DailyWeight) error {
	d.UpdatedAt = nowTime()

	rows, err := s.db.Execute(ctx,
		"SELECT id, created_at FROM daily_weights WHERE user_id = ? AND date = ?",
		d.UserID, d.Date)
	if err != nil {
		return fmt.Errorf("save weight: %w", err)
	}
	if len(rows) > 0 {
		d.ID = rows[0].UUID("id")
		d.CreatedAt = rows[0].Time("created_at")
	}

	if err := s.upsertRow(ctx, storage.TableDailyWeights, weightRow(d)); err != nil {
		return fmt.Errorf("save weight: %w", err)
	}
	s.enqueue(ctx, storage.TableDailyWeights, d.ID.String(), outbox.OpUpsert, weightRow(d))
	return nil
}

// GetWeight returns the weight record for a date, or ErrNotFound.
func (s *Store) GetWeight(ctx context.Context, userID, date string) (*models.DailyWeight, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_weights WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		return nil, fmt.Errorf("get weight: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanWeight(rows[0]), nil
}

// GetWeightsInRange returns weight records in [from, to], ascending by date.
// Read failures degrade to empty.
func (s *Store) GetWeightsInRange(ctx context.Context, userID, from, to string) []models.DailyWeight {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_weights WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to)
	if err != nil {
		s.logger.Printf("weights in range: %v", err)
		return nil
	}
	out := make([]models.DailyWeight, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanWeight(r))
	}
	return out
}

// LatestWeight returns the most recent weight record, or ErrNotFound.
func (s *Store) LatestWeight(ctx context.Context, userID string) (*models.DailyWeight, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_weights WHERE user_id = ? ORDER BY date DESC LIMIT 1", userID)
	if err != nil {
		return nil, fmt.Errorf("latest weight: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanWeight(rows[0]), nil
}

func weightRow(d *models.DailyWeight) map[string]any {
	return map[string]any{
		"id":         d.ID.String(),
		"user_id":    d.UserID,
		"date":       d.Date,
		"weight":     d.Weight,
		"source":     d.Source,
		"created_at": fmtTime(d.CreatedAt),
		"updated_at": fmtTime(d.UpdatedAt),
	}
}

func scanWeight(r storage.Row) *models.DailyWeight {
	return &models.DailyWeight{
		ID:        r.UUID("id"),
		UserID:    r.String("user_id"),
		Date:      r.String("date"),
		Weight:    r.Float("weight"),
		Source:    r.String("source"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}
