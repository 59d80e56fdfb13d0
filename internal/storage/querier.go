// ABOUTME: Querier contract shared by the SQLite and document-store backends.
// ABOUTME: Row normalizes typed access across backend value representations.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Querier is the single query-execution interface every backend implements.
// Domain modules speak parametrized SQL; the document-store backend translates
// the constrained subset they emit into native operations.
type Querier interface {
	// Execute runs a parametrized read and returns typed rows.
	Execute(ctx context.Context, query string, args ...any) ([]Row, error)

	// Run executes a parametrized write (INSERT/UPDATE/DELETE/ALTER).
	Run(ctx context.Context, query string, args ...any) error

	// RunInTransaction executes fn atomically. A nested call on an already
	// open transaction executes inline rather than opening a second one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// HasColumn reports whether a table currently carries a column. The
	// document-store backend is schemaless and always reports true.
	HasColumn(ctx context.Context, table, column string) (bool, error)

	Close() error
}

// Row is a single result row keyed by column name.
//
// SQLite returns int64/float64/string/[]byte; the document store returns JSON
// values (float64/string/bool/nil). The accessors below absorb the difference.
type Row map[string]any

// String returns the column as a string, or "" when NULL or absent.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// NullString returns the column as *string, nil when NULL.
func (r Row) NullString(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

// Int returns the column as an int, 0 when NULL.
func (r Row) Int(col string) int {
	return int(r.Int64(col))
}

// Int64 returns the column as an int64, 0 when NULL.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// NullInt returns the column as *int, nil when NULL.
func (r Row) NullInt(col string) *int {
	if r[col] == nil {
		return nil
	}
	n := r.Int(col)
	return &n
}

// Float returns the column as a float64, 0 when NULL.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// NullFloat returns the column as *float64, nil when NULL.
func (r Row) NullFloat(col string) *float64 {
	if r[col] == nil {
		return nil
	}
	f := r.Float(col)
	return &f
}

// Bool returns the column as a bool. Integer columns treat nonzero as true.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

// Bytes returns the column as a byte slice, nil when NULL.
func (r Row) Bytes(col string) []byte {
	switch v := r[col].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	}
	return nil
}

// Time parses the column as an RFC 3339 timestamp, zero time on failure.
func (r Row) Time(col string) time.Time {
	t, _ := time.Parse(time.RFC3339, r.String(col))
	return t
}

// NullTime returns the column as *time.Time, nil when NULL or unparseable.
func (r Row) NullTime(col string) *time.Time {
	s := r.String(col)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// UUID parses the column as a UUID, zero value on failure.
func (r Row) UUID(col string) uuid.UUID {
	id, _ := uuid.Parse(r.String(col))
	return id
}

// NullUUID returns the column as *uuid.UUID, nil when NULL or unparseable.
func (r Row) NullUUID(col string) *uuid.UUID {
	s := r.String(col)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
