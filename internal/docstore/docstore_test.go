// ABOUTME: Tests for the badger-backed document store.
// ABOUTME: Covers CRUD, WHERE evaluation, ordering, windows, cascades, and re-keying.
package docstore

import (
	"context"
	"io"
	"log"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertUser(t *testing.T, s *Store, id, name string) {
	t.Helper()
	err := s.Run(context.Background(),
		"INSERT OR REPLACE INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, name, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("insert user %s: %v", id, err)
	}
}

func TestInsertAndSelect(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	insertUser(t, s, "u1", "Alex")

	rows, err := s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "u1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].String("name") != "Alex" {
		t.Errorf("name = %s, want Alex", rows[0].String("name"))
	}
}

func TestInsertWithoutReplaceRejectsDuplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.Run(ctx,
		"INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		"u1", "Alex", "", "")
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err = s.Run(ctx,
		"INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		"u1", "Blake", "", "")
	if err == nil {
		t.Fatal("expected constraint violation on duplicate insert")
	}
}

func TestCountQuery(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	insertUser(t, s, "u1", "Alex")
	insertUser(t, s, "u2", "Blake")

	rows, err := s.Execute(ctx, "SELECT COUNT(*) AS n FROM users")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows[0].Int64("n") != 2 {
		t.Errorf("count = %d, want 2", rows[0].Int64("n"))
	}
}

func TestOrderLimitOffset(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for _, u := range []struct{ id, name string }{
		{"u1", "Cara"}, {"u2", "Alex"}, {"u3", "Blake"},
	} {
		insertUser(t, s, u.id, u.name)
	}

	rows, err := s.Execute(ctx, "SELECT * FROM users ORDER BY name LIMIT ? OFFSET ?", 2, 1)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].String("name") != "Blake" || rows[1].String("name") != "Cara" {
		t.Errorf("order wrong: %s, %s", rows[0].String("name"), rows[1].String("name"))
	}
}

func TestRangeAndLikeConditions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, d := range []struct{ id, date string }{
		{"s1", "2026-01-05"}, {"s2", "2026-01-10"}, {"s3", "2026-02-01"},
	} {
		err := s.Run(ctx,
			"INSERT INTO daily_steps (id, user_id, date, steps, source, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			d.id, "u1", d.date, 1000, "manual", "", "")
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := s.Execute(ctx,
		"SELECT * FROM daily_steps WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		"u1", "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("range query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows in January, got %d", len(rows))
	}

	rows, err = s.Execute(ctx, "SELECT * FROM daily_steps WHERE date LIKE ?", "2026-02%")
	if err != nil {
		t.Fatalf("like query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row matching prefix, got %d", len(rows))
	}
}

func TestMergeInsertUpdatesOnlyListedColumns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	insertUser(t, s, "u1", "Alex")

	err := s.Run(ctx,
		"INSERT INTO users (id, name, updated_at) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at",
		"u1", "Blake", "2026-02-01T00:00:00Z")
	if err != nil {
		t.Fatalf("merge insert failed: %v", err)
	}

	rows, _ := s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "u1")
	if len(rows) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(rows))
	}
	if rows[0].String("name") != "Blake" {
		t.Errorf("name = %s, want Blake", rows[0].String("name"))
	}
	// Columns outside the merge list keep their stored values.
	if rows[0].String("created_at") != "2026-01-01T00:00:00Z" {
		t.Errorf("created_at = %s, want preserved", rows[0].String("created_at"))
	}

	// DO NOTHING leaves an existing doc untouched, but inserts a missing one.
	err = s.Run(ctx,
		"INSERT INTO users (id) VALUES (?) ON CONFLICT(id) DO NOTHING", "u1")
	if err != nil {
		t.Fatalf("do-nothing insert failed: %v", err)
	}
	rows, _ = s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "u1")
	if rows[0].String("name") != "Blake" {
		t.Errorf("DO NOTHING overwrote the doc: %+v", rows[0])
	}
}

func TestUpdateReKeysPrimaryKey(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	insertUser(t, s, "local-abc", "Alex")

	err := s.Run(ctx, "UPDATE users SET id = ? WHERE id LIKE ?", "cloud-1", "local-%")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rows, _ := s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "local-abc")
	if len(rows) != 0 {
		t.Error("old key should be gone after re-key")
	}
	rows, _ = s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "cloud-1")
	if len(rows) != 1 {
		t.Fatal("expected doc under new key")
	}
	if rows[0].String("name") != "Alex" {
		t.Errorf("name = %s, want Alex", rows[0].String("name"))
	}
}

func TestDeleteCascadesThroughRelations(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := func(query string, args ...any) {
		t.Helper()
		if err := s.Run(ctx, query, args...); err != nil {
			t.Fatalf("run %q: %v", query, err)
		}
	}
	run("INSERT INTO workout_logs (id, user_id, date, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		"w1", "u1", "2026-01-01", "Push", "", "")
	run("INSERT INTO exercise_logs (id, workout_log_id, user_id, name, order_index) VALUES (?, ?, ?, ?, ?)",
		"e1", "w1", "u1", "bench press", 0)
	run("INSERT INTO set_logs (id, exercise_log_id, user_id, order_index, reps, weight, completed) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"s1", "e1", "u1", 0, 8, 80.0, 1)

	run("DELETE FROM workout_logs WHERE id = ?", "w1")

	for _, table := range []string{"workout_logs", "exercise_logs", "set_logs"} {
		rows, err := s.Execute(ctx, "SELECT COUNT(*) AS n FROM "+table)
		if err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if rows[0].Int64("n") != 0 {
			t.Errorf("%s: expected cascade to remove all rows, got %d", table, rows[0].Int64("n"))
		}
	}
}

func TestTransactionRollback(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		insertErr := s.Run(ctx,
			"INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"u1", "Alex", "", "")
		if insertErr != nil {
			return insertErr
		}
		return context.Canceled
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	rows, _ := s.Execute(ctx, "SELECT COUNT(*) AS n FROM users")
	if rows[0].Int64("n") != 0 {
		t.Error("expected rollback to discard the insert")
	}
}

func TestTransactionStateStaysOnContext(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	insertUser(t, s, "u0", "Seed")

	err := s.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Run(txCtx,
			"INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"u1", "Alex", "", ""); err != nil {
			return err
		}

		inside, err := s.Execute(txCtx, "SELECT COUNT(*) AS n FROM users")
		if err != nil {
			return err
		}
		if inside[0].Int64("n") != 2 {
			t.Errorf("transaction context counts %d users", inside[0].Int64("n"))
		}

		outside, err := s.Execute(context.Background(), "SELECT COUNT(*) AS n FROM users")
		if err != nil {
			return err
		}
		if outside[0].Int64("n") != 1 {
			t.Errorf("plain context counts %d users, want only the committed one", outside[0].Int64("n"))
		}

		// Nesting on the transaction context runs inline.
		return s.RunInTransaction(txCtx, func(txCtx context.Context) error {
			return s.Run(txCtx, "UPDATE users SET name = ? WHERE id = ?", "Blake", "u1")
		})
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	rows, _ := s.Execute(ctx, "SELECT * FROM users WHERE id = ?", "u1")
	if len(rows) != 1 || rows[0].String("name") != "Blake" {
		t.Errorf("after commit: %+v", rows)
	}
}

func TestNumericNormalization(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.Run(ctx,
		"INSERT INTO set_logs (id, exercise_log_id, user_id, order_index, reps, weight, completed) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"s1", "e1", "u1", 0, 8, 80.5, 1)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := s.Execute(ctx, "SELECT * FROM set_logs WHERE completed = ?", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected int arg to match stored numeric, got %d rows", len(rows))
	}
	if rows[0].Int("reps") != 8 {
		t.Errorf("reps = %d, want 8", rows[0].Int("reps"))
	}
	if rows[0].Float("weight") != 80.5 {
		t.Errorf("weight = %v, want 80.5", rows[0].Float("weight"))
	}
	if !rows[0].Bool("completed") {
		t.Error("completed should read back true")
	}
}
