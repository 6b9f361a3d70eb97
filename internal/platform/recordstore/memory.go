package recordstore

import (
	"context"
	"sync"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// IDColumn is the store-assigned identity column of auto-increment tables.
const IDColumn = "id"

// Call records one primitive invocation against a MemoryStore.
type Call struct {
	Op     Op
	Table  string
	Failed bool
}

type fault struct {
	op    Op
	table string
	err   error
}

// MemoryStore is an in-process Store used for local runs and tests.
// It keeps insertion order, assigns ids for auto-increment tables, supports
// fault injection per (op, table) and records every call for ordering checks.
type MemoryStore struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	tables  map[string][]Row
	autoInc map[string]bool
	nextID  map[string]int64
	faults  []fault
	calls   []Call
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithAutoIncrement marks tables whose "id" column is assigned on insert.
func WithAutoIncrement(tables ...string) MemoryOption {
	return func(m *MemoryStore) {
		for _, t := range tables {
			m.autoInc[t] = true
		}
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		tables:  make(map[string][]Row),
		autoInc: make(map[string]bool),
		nextID:  make(map[string]int64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailOn makes every subsequent op on table fail with err until ClearFaults.
// An empty table matches every table.
func (m *MemoryStore) FailOn(op Op, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = append(m.faults, fault{op: op, table: table, err: err})
}

// ClearFaults removes all injected faults.
func (m *MemoryStore) ClearFaults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = nil
}

// Calls returns the recorded call log.
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// ResetCalls clears the call log.
func (m *MemoryStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Rows returns a copy of every row in table.
func (m *MemoryStore) Rows(table string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, r.Clone())
	}
	return out
}

// check records the call and returns the injected fault, if any. Caller holds mu.
func (m *MemoryStore) check(op Op, table string) error {
	for _, f := range m.faults {
		if f.op == op && (f.table == "" || f.table == table) {
			m.calls = append(m.calls, Call{Op: op, Table: table, Failed: true})
			return &Error{Op: op, Table: table, Err: f.err}
		}
	}
	m.calls = append(m.calls, Call{Op: op, Table: table})
	return nil
}

// Select implements Store.
func (m *MemoryStore) Select(_ context.Context, table string, conds ...query.Condition) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpSelect, table); err != nil {
		return nil, err
	}
	var out []Row
	for _, r := range m.tables[table] {
		if query.MatchAll(r, conds...) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// Insert implements Store.
func (m *MemoryStore) Insert(_ context.Context, table string, rows ...Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpInsert, table); err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored := r.Clone()
		if m.autoInc[table] {
			if id, ok := stored[IDColumn].(int64); ok && id > 0 {
				if id > m.nextID[table] {
					m.nextID[table] = id
				}
			} else {
				m.nextID[table]++
				stored[IDColumn] = m.nextID[table]
			}
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, stored.Clone())
	}
	return out, nil
}

// Update implements Store.
func (m *MemoryStore) Update(_ context.Context, table string, patch Row, conds ...query.Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpUpdate, table); err != nil {
		return err
	}
	for _, r := range m.tables[table] {
		if !query.MatchAll(r, conds...) {
			continue
		}
		for k, v := range patch {
			r[k] = query.Normalize(v)
		}
	}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, table string, conds ...query.Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpDelete, table); err != nil {
		return err
	}
	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !query.MatchAll(r, conds...) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

// RunInTransaction implements Transactor. Transactions are serialized with
// each other and rolled back to a snapshot when fn fails.
func (m *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[string][]Row, len(m.tables))
	for t, rows := range m.tables {
		cp := make([]Row, 0, len(rows))
		for _, r := range rows {
			cp = append(cp, r.Clone())
		}
		snapshot[t] = cp
	}
	nextID := make(map[string]int64, len(m.nextID))
	for t, id := range m.nextID {
		nextID[t] = id
	}
	m.mu.Unlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.tables = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

var (
	_ Store      = (*MemoryStore)(nil)
	_ Transactor = (*MemoryStore)(nil)
)
