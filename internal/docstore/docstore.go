// ABOUTME: Badger-backed document store implementing the storage.Querier contract.
// ABOUTME: Translates the parsed SQL subset into prefix scans, with explicit FK cascades.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/fittrack/internal/storage"
)

const keyPrefix = "d:"

// Store is the document-store backend. Records live as JSON documents under
// "d:<table>:<primary key>" keys; there are no native FK constraints, so
// cascade deletes follow the storage.Relations registry explicitly.
type Store struct {
	db     *badger.DB
	logger *log.Logger

	// mu serializes transactions; like the SQLite backend, the open
	// transaction travels on the context rather than on shared state.
	mu sync.Mutex
}

// txCtxKey carries the open *badger.Txn through the context during
// RunInTransaction, so reads and writes inside fn route to it.
type txCtxKey struct{}

func txFrom(ctx context.Context) *badger.Txn {
	txn, _ := ctx.Value(txCtxKey{}).(*badger.Txn)
	return txn
}

// Open opens or creates the document store in the given directory and applies
// pending migrations (schema steps are no-ops here, but the version counter in
// app_meta stays in step with the SQLite backend).
func Open(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[docstore] ", log.LstdFlags)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := storage.RunMigrations(context.Background(), s, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// DefaultPath returns the default document-store directory.
func DefaultPath() string {
	return filepath.Join(storage.DataDir(), "docstore")
}

// Close closes the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HasColumn always reports true: documents are schemaless, so every ALTER
// TABLE migration step is already satisfied.
func (s *Store) HasColumn(ctx context.Context, table, column string) (bool, error) {
	return true, nil
}

func docKey(table, id string) []byte {
	return []byte(keyPrefix + table + ":" + id)
}

func tablePrefix(table string) []byte {
	return []byte(keyPrefix + table + ":")
}

func (s *Store) withRead(ctx context.Context, fn func(t *badger.Txn) error) error {
	if txn := txFrom(ctx); txn != nil {
		return fn(txn)
	}
	return s.db.View(fn)
}

func (s *Store) withWrite(ctx context.Context, fn func(t *badger.Txn) error) error {
	if txn := txFrom(ctx); txn != nil {
		return fn(txn)
	}
	return s.db.Update(fn)
}

// RunInTransaction executes fn atomically. The transaction rides the context
// handed to fn; a nested call sees it there and runs inline.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.NewTransaction(true)
	defer txn.Discard() // no-op after Commit

	if err := fn(context.WithValue(ctx, txCtxKey{}, txn)); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Execute runs a parametrized read from the supported SQL subset.
func (s *Store) Execute(ctx context.Context, query string, args ...any) ([]storage.Row, error) {
	st, err := parse(query)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if st.Kind != stmtSelect {
		return nil, fmt.Errorf("Execute requires a SELECT, got %q", query)
	}

	docs, rest, err := s.scan(ctx, st, args)
	if err != nil {
		return nil, err
	}

	if st.Count {
		return []storage.Row{{st.CountAs: int64(len(docs))}}, nil
	}

	sortDocs(docs, st.Order)
	docs, err = applyWindow(docs, st, rest)
	if err != nil {
		return nil, err
	}

	rows := make([]storage.Row, 0, len(docs))
	for _, doc := range docs {
		if len(st.Columns) == 0 {
			rows = append(rows, storage.Row(doc))
			continue
		}
		row := make(storage.Row, len(st.Columns))
		for _, col := range st.Columns {
			row[col] = doc[col]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Run executes a parametrized write from the supported SQL subset.
func (s *Store) Run(ctx context.Context, query string, args ...any) error {
	st, err := parse(query)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	switch st.Kind {
	case stmtInsert:
		return s.applyInsert(ctx, st, args)
	case stmtUpdate:
		return s.applyUpdate(ctx, st, args)
	case stmtDelete:
		return s.applyDelete(ctx, st, args)
	case stmtAlter:
		return nil // schemaless
	default:
		return fmt.Errorf("Run requires a write statement, got %q", query)
	}
}

// scan loads all documents of the statement's table matching its WHERE clause
// and returns the args left over for LIMIT/OFFSET binding.
func (s *Store) scan(ctx context.Context, st *statement, args []any) ([]map[string]any, []any, error) {
	condArgs := 0
	for _, c := range st.Conds {
		condArgs += c.Params
	}
	if len(args) < condArgs {
		return nil, nil, fmt.Errorf("query binds %d parameters, got %d", condArgs, len(args))
	}

	var docs []map[string]any
	err := s.withRead(ctx, func(t *badger.Txn) error {
		it := t.NewIterator(badger.IteratorOptions{Prefix: tablePrefix(st.Table), PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var doc map[string]any
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			ok, err := matches(doc, st.Conds, args[:condArgs])
			if err != nil {
				return err
			}
			if ok {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return docs, args[condArgs:], nil
}

func applyWindow(docs []map[string]any, st *statement, rest []any) ([]map[string]any, error) {
	limit, offset := -1, 0
	take := func(lc limitClause) (int, error) {
		if lc.Param {
			if len(rest) == 0 {
				return 0, fmt.Errorf("missing LIMIT/OFFSET parameter")
			}
			v := rest[0]
			rest = rest[1:]
			switch n := v.(type) {
			case int:
				return n, nil
			case int64:
				return int(n), nil
			case float64:
				return int(n), nil
			}
			return 0, fmt.Errorf("LIMIT/OFFSET parameter must be numeric")
		}
		return lc.Value, nil
	}

	var err error
	if st.Limit.Present {
		if limit, err = take(st.Limit); err != nil {
			return nil, err
		}
	}
	if st.Offset.Present {
		if offset, err = take(st.Offset); err != nil {
			return nil, err
		}
	}

	if offset > 0 {
		if offset >= len(docs) {
			return nil, nil
		}
		docs = docs[offset:]
	}
	if limit >= 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *Store) applyInsert(ctx context.Context, st *statement, args []any) error {
	if len(args) != len(st.Columns) {
		return fmt.Errorf("insert binds %d parameters, got %d", len(st.Columns), len(args))
	}
	doc := make(map[string]any, len(st.Columns))
	for i, col := range st.Columns {
		doc[col] = normalizeValue(args[i])
	}

	pk := storage.PrimaryKey(st.Table)
	id, ok := doc[pk].(string)
	if !ok || id == "" {
		return fmt.Errorf("insert into %s requires a string %s", st.Table, pk)
	}
	key := docKey(st.Table, id)

	return s.withWrite(ctx, func(t *badger.Txn) error {
		item, err := t.Get(key)
		if err == badger.ErrKeyNotFound {
			return s.putDoc(t, st.Table, id, doc)
		}
		if err != nil {
			return err
		}

		switch {
		case st.Conflict != "":
			// Merge form: update only the listed columns in place, so the
			// document (and, on the SQLite backend, its children) survives.
			if len(st.Merge) == 0 {
				return nil // DO NOTHING
			}
			var existing map[string]any
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			for _, col := range st.Merge {
				existing[col] = doc[col]
			}
			return s.putDoc(t, st.Table, id, existing)
		case st.OrReplace:
			return s.putDoc(t, st.Table, id, doc)
		default:
			return fmt.Errorf("constraint violation: %s %s already exists", st.Table, id)
		}
	})
}

func (s *Store) applyUpdate(ctx context.Context, st *statement, args []any) error {
	if len(args) < len(st.Sets) {
		return fmt.Errorf("update binds at least %d parameters, got %d", len(st.Sets), len(args))
	}
	setArgs := args[:len(st.Sets)]
	condArgs := args[len(st.Sets):]

	docs, _, err := s.scan(ctx, &statement{Kind: stmtSelect, Table: st.Table, Conds: st.Conds}, condArgs)
	if err != nil {
		return err
	}

	pk := storage.PrimaryKey(st.Table)
	return s.withWrite(ctx, func(t *badger.Txn) error {
		for _, doc := range docs {
			oldID, _ := doc[pk].(string)
			for i, col := range st.Sets {
				doc[col] = normalizeValue(setArgs[i])
			}
			newID, _ := doc[pk].(string)
			if newID == "" {
				return fmt.Errorf("update would clear %s.%s", st.Table, pk)
			}
			// Re-key when the update rewrites the primary key (ownership migration).
			if newID != oldID {
				if err := t.Delete(docKey(st.Table, oldID)); err != nil {
					return err
				}
			}
			if err := s.putDoc(t, st.Table, newID, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) applyDelete(ctx context.Context, st *statement, args []any) error {
	docs, _, err := s.scan(ctx, &statement{Kind: stmtSelect, Table: st.Table, Conds: st.Conds}, args)
	if err != nil {
		return err
	}
	return s.withWrite(ctx, func(t *badger.Txn) error {
		return s.cascadeDelete(t, st.Table, docs)
	})
}

// cascadeDelete removes docs and, children-first, every document referencing
// them through a registered relation.
func (s *Store) cascadeDelete(t *badger.Txn, table string, docs []map[string]any) error {
	if len(docs) == 0 {
		return nil
	}
	pk := storage.PrimaryKey(table)
	ids := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if id, ok := doc[pk].(string); ok {
			ids[id] = true
		}
	}

	for _, rel := range storage.Relations {
		if rel.Parent != table {
			continue
		}
		var children []map[string]any
		it := t.NewIterator(badger.IteratorOptions{Prefix: tablePrefix(rel.Child), PrefetchValues: true, PrefetchSize: 100})
		for it.Rewind(); it.Valid(); it.Next() {
			var doc map[string]any
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				it.Close()
				return err
			}
			if fk, ok := doc[rel.ForeignKey].(string); ok && ids[fk] {
				children = append(children, doc)
			}
		}
		it.Close()
		if err := s.cascadeDelete(t, rel.Child, children); err != nil {
			return err
		}
	}

	for id := range ids {
		if err := t.Delete(docKey(table, id)); err != nil {
			return fmt.Errorf("delete %s %s: %w", table, id, err)
		}
	}
	return nil
}

func (s *Store) putDoc(t *badger.Txn, table, id string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return t.Set(docKey(table, id), data)
}

// normalizeValue maps driver argument types onto JSON-stable values so reads
// on either backend observe the same shapes.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// matches evaluates the WHERE conjunction against a document.
func matches(doc map[string]any, conds []cond, args []any) (bool, error) {
	for _, c := range conds {
		bound := args[:c.Params]
		args = args[c.Params:]
		val := doc[c.Column]

		switch c.Op {
		case opEq:
			if !valueEq(val, bound[0]) {
				return false, nil
			}
		case opIn:
			found := false
			for _, a := range bound {
				if valueEq(val, a) {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		case opBetween:
			lo, okLo := compare(val, bound[0])
			hi, okHi := compare(val, bound[1])
			if !okLo || !okHi || lo < 0 || hi > 0 {
				return false, nil
			}
		case opIsNull:
			if val != nil {
				return false, nil
			}
		case opIsNotNull:
			if val == nil {
				return false, nil
			}
		case opLT, opLE, opGT, opGE:
			cmp, ok := compare(val, bound[0])
			if !ok {
				return false, nil
			}
			switch c.Op {
			case opLT:
				if cmp >= 0 {
					return false, nil
				}
			case opLE:
				if cmp > 0 {
					return false, nil
				}
			case opGT:
				if cmp <= 0 {
					return false, nil
				}
			case opGE:
				if cmp < 0 {
					return false, nil
				}
			}
		case opLikePrefix:
			pattern, ok := bound[0].(string)
			if !ok || !strings.HasSuffix(pattern, "%") || strings.Count(pattern, "%") != 1 {
				return false, fmt.Errorf("LIKE supports only 'prefix%%' patterns, got %v", bound[0])
			}
			sv, ok := val.(string)
			if !ok || !strings.HasPrefix(sv, strings.TrimSuffix(pattern, "%")) {
				return false, nil
			}
		}
	}
	return true, nil
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func valueEq(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
	}
	if sa, ok := asString(a); ok {
		if sb, ok := asString(b); ok {
			return sa == sb
		}
	}
	return false
}

// compare orders two values: numerics numerically, strings lexicographically.
// Mixed or nil operands do not compare.
func compare(a, b any) (int, bool) {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	if sa, ok := asString(a); ok {
		if sb, ok := asString(b); ok {
			return strings.Compare(sa, sb), true
		}
	}
	return 0, false
}

func sortDocs(docs []map[string]any, order []orderBy) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, ob := range order {
			cmp, ok := compare(docs[i][ob.Column], docs[j][ob.Column])
			if !ok {
				// nil sorts first ascending, last descending
				iNil := docs[i][ob.Column] == nil
				jNil := docs[j][ob.Column] == nil
				if iNil == jNil {
					continue
				}
				if ob.Desc {
					return jNil
				}
				return iNil
			}
			if cmp == 0 {
				continue
			}
			if ob.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
