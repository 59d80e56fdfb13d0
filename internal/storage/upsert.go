// ABOUTME: Helper to build INSERT OR REPLACE statements from row maps.
// ABOUTME: Columns are sorted so generated SQL is deterministic across runs.
package storage

import (
	"sort"
	"strings"
)

// UpsertSQL builds an INSERT OR REPLACE statement for a row map. Used by the
// domain modules for saves and by the sync service when applying pulled rows.
func UpsertSQL(table string, row map[string]any) (string, []any) {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		args[i] = row[col]
		marks[i] = "?"
	}

	var b strings.Builder
	b.WriteString("INSERT OR REPLACE INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(marks, ", "))
	b.WriteString(")")
	return b.String(), args
}

// UpsertMergeSQL builds an INSERT ... ON CONFLICT DO UPDATE statement that
// merges the row into an existing record in place. REPLACE deletes the old
// row first, which fires ON DELETE CASCADE on its children; the merge form
// must be used wherever existing child rows have to survive the write, such
// as applying pulled parent rows.
func UpsertMergeSQL(table string, row map[string]any) (string, []any) {
	pk := PrimaryKey(table)

	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	marks := make([]string, len(cols))
	sets := make([]string, 0, len(cols))
	for i, col := range cols {
		args[i] = row[col]
		marks[i] = "?"
		if col != pk {
			sets = append(sets, col+" = excluded."+col)
		}
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(marks, ", "))
	b.WriteString(") ON CONFLICT(")
	b.WriteString(pk)
	if len(sets) == 0 {
		b.WriteString(") DO NOTHING")
	} else {
		b.WriteString(") DO UPDATE SET ")
		b.WriteString(strings.Join(sets, ", "))
	}
	return b.String(), args
}
