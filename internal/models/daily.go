// ABOUTME: DailySteps and DailyWeight models, one record per user per date.
// ABOUTME: Each record carries a provenance tag (manual entry vs device sync).
package models

import (
	"time"

	"github.com/google/uuid"
)

// Provenance of a daily record.
const (
	SourceManual = "manual"
	SourceDevice = "device"
)

// DailySteps is the step count for a user and date.
type DailySteps struct {
	ID        uuid.UUID
	UserID    string
	Date      string // YYYY-MM-DD
	Count     int
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDailySteps creates a manually entered step record.
func NewDailySteps(userID, date string, count int) *DailySteps {
	now := time.Now().UTC()
	return &DailySteps{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Count:     count,
		Source:    SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DailyWeight is the body weight for a user and date.
type DailyWeight struct {
	ID        uuid.UUID
	UserID    string
	Date      string // YYYY-MM-DD
	Weight    float64
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDailyWeight creates a manually entered weight record.
func NewDailyWeight(userID, date string, weight float64) *DailyWeight {
	now := time.Now().UTC()
	return &DailyWeight{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Weight:    weight,
		Source:    SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
