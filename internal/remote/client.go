// ABOUTME: Remote backend contract: row-oriented select/upsert/delete plus auth.
// ABOUTME: The backend partitions every table by user_id; rows carry id and updated_at.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the remote backend lacks the requested record.
// Deletes treat it as success (idempotent delete).
var ErrNotFound = errors.New("remote: record not found")

// Filter scopes a Select call.
type Filter struct {
	// UserID restricts rows to one user. Empty selects across users, which
	// the backend only permits for non-user-scoped tables.
	UserID string

	// UpdatedAfter restricts rows to those changed after the watermark.
	// Zero means no lower bound.
	UpdatedAfter time.Time
}

// Client is the remote backend consumed by the sync service. Rows are plain
// column maps with at least "id" and "updated_at".
type Client interface {
	// Select returns rows of a table matching the filter.
	Select(ctx context.Context, table string, f Filter) ([]map[string]any, error)

	// Fetch returns a single row by id, or ErrNotFound.
	Fetch(ctx context.Context, table, id string) (map[string]any, error)

	// Upsert creates or replaces a row and returns the stored version.
	Upsert(ctx context.Context, table string, row map[string]any) (map[string]any, error)

	// Delete removes a row by id, returning ErrNotFound when already absent.
	Delete(ctx context.Context, table, id string) error

	// Health checks server reachability.
	Health(ctx context.Context) error
}

// Session is the opaque authentication result scoping subsequent calls.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
