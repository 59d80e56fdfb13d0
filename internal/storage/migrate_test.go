// ABOUTME: Tests for schema migrations and app_meta helpers.
// ABOUTME: Covers version advancement, idempotency, and the stalled-prefix rule.
package storage

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

func TestMigrationsAdvanceVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Open already ran the migrations.
	v, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	want := migrations[len(migrations)-1].Version
	if v != want {
		t.Errorf("schema version = %d, want %d", v, want)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	if err := RunMigrations(ctx, db, logger); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if err := RunMigrations(ctx, db, logger); err != nil {
		t.Fatalf("third run failed: %v", err)
	}
}

func TestFailedMigrationDoesNotAdvanceVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	// Reset to before the failing step.
	if err := SetMeta(ctx, db, schemaVersionKey, "0"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	saved := migrations
	defer func() { migrations = saved }()
	migrations = []Migration{
		{Version: 1, Name: "ok", Apply: func(ctx context.Context, q Querier) error { return nil }},
		{Version: 2, Name: "fails", Apply: func(ctx context.Context, q Querier) error {
			return errors.New("broken step")
		}},
		{Version: 3, Name: "ok after failure", Apply: func(ctx context.Context, q Querier) error { return nil }},
	}

	if err := RunMigrations(ctx, db, logger); err != nil {
		t.Fatalf("RunMigrations returned error: %v", err)
	}

	// Version stops at the last unbroken success, so step 2 retries next run.
	v, _ := SchemaVersion(ctx, db)
	if v != 1 {
		t.Errorf("schema version = %d, want 1", v)
	}
}

func TestGetSetMeta(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, ok, err := GetMeta(ctx, db, "missing")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if ok {
		t.Error("expected missing key to report !ok")
	}

	if err := SetMeta(ctx, db, "current_user", "u1"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	v, ok, err := GetMeta(ctx, db, "current_user")
	if err != nil || !ok {
		t.Fatalf("GetMeta failed: %v ok=%v", err, ok)
	}
	if v != "u1" {
		t.Errorf("value = %s, want u1", v)
	}

	if err := SetMeta(ctx, db, "current_user", "u2"); err != nil {
		t.Fatalf("SetMeta overwrite failed: %v", err)
	}
	v, _, _ = GetMeta(ctx, db, "current_user")
	if v != "u2" {
		t.Errorf("value = %s, want u2", v)
	}
}
