// ABOUTME: Forward-only schema migrations with a version counter in app_meta.
// ABOUTME: A failed step is logged and skipped for the run; the version is not advanced past it.
package storage

import (
	"context"
	"fmt"
	"log"
)

const schemaVersionKey = "schema_version"

// Migration is one idempotent forward step.
type Migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, q Querier) error
}

// addColumn applies ALTER TABLE ADD COLUMN only when the column is missing,
// so a step can be re-run safely after a partial failure.
func addColumn(table, column, definition string) func(ctx context.Context, q Querier) error {
	return func(ctx context.Context, q Querier) error {
		has, err := q.HasColumn(ctx, table, column)
		if err != nil {
			return fmt.Errorf("check column %s.%s: %w", table, column, err)
		}
		if has {
			return nil
		}
		return q.Run(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	}
}

// migrations is the ordered forward history. The baseline schema (version 1)
// is created by initSchema; later steps exist for databases created by older
// builds whose CREATE TABLE statements predate these columns.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "baseline schema",
		Apply:   func(ctx context.Context, q Querier) error { return nil },
	},
	{
		Version: 2,
		Name:    "set_logs: add rpe",
		Apply:   addColumn(TableSetLogs, "rpe", "REAL"),
	},
	{
		Version: 3,
		Name:    "food_presets: add serving_unit",
		Apply:   addColumn(TableFoodPresets, "serving_unit", "TEXT NOT NULL DEFAULT 'serving'"),
	},
	{
		Version: 4,
		Name:    "sync_queue: add last_error",
		Apply:   addColumn(TableSyncQueue, "last_error", "TEXT"),
	},
	{
		Version: 5,
		Name:    "custom_exercises: add equipment",
		Apply:   addColumn(TableCustomExercises, "equipment", "TEXT NOT NULL DEFAULT ''"),
	},
	{
		Version: 6,
		Name:    "daily records: add source provenance",
		Apply: func(ctx context.Context, q Querier) error {
			if err := addColumn(TableDailySteps, "source", "TEXT NOT NULL DEFAULT 'manual'")(ctx, q); err != nil {
				return err
			}
			return addColumn(TableDailyWeights, "source", "TEXT NOT NULL DEFAULT 'manual'")(ctx, q)
		},
	},
}

// RunMigrations applies every migration above the stored schema version.
//
// A failing step is logged and skipped rather than aborting startup: the app
// continues against the prior schema shape and the step is retried on the next
// run, because the stored version only advances across an unbroken prefix of
// successful steps.
func RunMigrations(ctx context.Context, q Querier, logger *log.Logger) error {
	current, err := SchemaVersion(ctx, q)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	stalled := false
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Apply(ctx, q); err != nil {
			logger.Printf("migration %d (%s) failed, skipping: %v", m.Version, m.Name, err)
			stalled = true
			continue
		}
		if !stalled {
			if err := SetMeta(ctx, q, schemaVersionKey, fmt.Sprintf("%d", m.Version)); err != nil {
				return fmt.Errorf("advance schema version: %w", err)
			}
		}
	}
	return nil
}

// SchemaVersion returns the stored schema version, 0 for a fresh database.
func SchemaVersion(ctx context.Context, q Querier) (int, error) {
	v, ok, err := GetMeta(ctx, q, schemaVersionKey)
	if err != nil || !ok {
		return 0, err
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, nil
	}
	return n, nil
}

// GetMeta reads a value from app_meta.
func GetMeta(ctx context.Context, q Querier, key string) (string, bool, error) {
	rows, err := q.Execute(ctx, "SELECT value FROM app_meta WHERE key = ?", key)
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].String("value"), true, nil
}

// SetMeta writes a value to app_meta.
func SetMeta(ctx context.Context, q Querier, key, value string) error {
	return q.Run(ctx, "INSERT OR REPLACE INTO app_meta (key, value) VALUES (?, ?)", key, value)
}
