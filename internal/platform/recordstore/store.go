// Package recordstore is the generic record-store boundary used by the
// catalog repositories: select, insert, update and delete over named tables
// with equality and id-in-set filters.
//
// Backends make no promise about foreign keys or cascades; callers delete in
// dependency order. Backends that can group calls into one transaction also
// implement Transactor.
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// Op names a store primitive.
type Op string

const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Store is the record-store client consumed by repositories.
type Store interface {
	// Select returns every row of table matching all conditions.
	Select(ctx context.Context, table string, conds ...query.Condition) ([]Row, error)

	// Insert writes rows and returns them as stored, including generated ids.
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)

	// Update applies patch to every row matching all conditions.
	Update(ctx context.Context, table string, patch Row, conds ...query.Condition) error

	// Delete removes every row matching all conditions. Deleting nothing is not an error.
	Delete(ctx context.Context, table string, conds ...query.Condition) error
}

// Transactor is implemented by stores that can run several calls atomically.
// fn may be invoked more than once if the backend retries aborted transactions.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Querier is implemented by SQL backends that accept prebuilt statements.
// Read models use it for ordering and limits the Store primitives lack.
type Querier interface {
	Dialect() query.Dialect
	Query(ctx context.Context, table string, stmt query.Statement) ([]Row, error)
}

// ErrNoRows is returned by helpers expecting exactly one row.
var ErrNoRows = errors.New("no rows in result set")

// Error is the typed failure returned by every backend.
type Error struct {
	Op    Op
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("record store %s on %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op Op, table string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}
	return &Error{Op: op, Table: table, Err: err}
}

// SelectOne returns the single row matching conds or ErrNoRows.
func SelectOne(ctx context.Context, s Store, table string, conds ...query.Condition) (Row, error) {
	rows, err := s.Select(ctx, table, conds...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}
