package recordstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// SpannerStore implements Store on Cloud Spanner using DML.
// Each write call commits in its own read-write transaction; use
// RunInTransaction to group calls.
type SpannerStore struct {
	client *spanner.Client
}

// NewSpannerStore creates a SpannerStore over an open client.
func NewSpannerStore(client *spanner.Client) *SpannerStore {
	return &SpannerStore{client: client}
}

// Client exposes the underlying client for maintenance commands.
func (s *SpannerStore) Client() *spanner.Client {
	return s.client
}

// Select implements Store with a single-use read-only transaction.
func (s *SpannerStore) Select(ctx context.Context, table string, conds ...query.Condition) ([]Row, error) {
	rows, err := spannerSelect(ctx, s.client.Single(), table, conds)
	return rows, wrap(OpSelect, table, err)
}

// Dialect implements Querier.
func (s *SpannerStore) Dialect() query.Dialect {
	return query.Spanner
}

// Query implements Querier. table only labels errors.
func (s *SpannerStore) Query(ctx context.Context, table string, stmt query.Statement) ([]Row, error) {
	rows, err := collectSpannerRows(s.client.Single().Query(ctx, toSpanner(stmt)))
	return rows, wrap(OpSelect, table, err)
}

// Insert implements Store.
func (s *SpannerStore) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var out []Row
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		var err error
		out, err = spannerInsert(ctx, txn, table, rows)
		return err
	})
	return out, wrap(OpInsert, table, err)
}

// Update implements Store.
func (s *SpannerStore) Update(ctx context.Context, table string, patch Row, conds ...query.Condition) error {
	if len(patch) == 0 {
		return nil
	}
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return spannerUpdate(ctx, txn, table, patch, conds)
	})
	return wrap(OpUpdate, table, err)
}

// Delete implements Store.
func (s *SpannerStore) Delete(ctx context.Context, table string, conds ...query.Condition) error {
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return spannerDelete(ctx, txn, table, conds)
	})
	return wrap(OpDelete, table, err)
}

// RunInTransaction implements Transactor. Spanner may retry fn when the
// transaction aborts.
func (s *SpannerStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return fn(ctx, &spannerTx{txn: txn})
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// spannerTx is the Store view of one read-write transaction.
type spannerTx struct {
	txn *spanner.ReadWriteTransaction
}

func (t *spannerTx) Select(ctx context.Context, table string, conds ...query.Condition) ([]Row, error) {
	rows, err := spannerSelect(ctx, t.txn, table, conds)
	return rows, wrap(OpSelect, table, err)
}

func (t *spannerTx) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	out, err := spannerInsert(ctx, t.txn, table, rows)
	return out, wrap(OpInsert, table, err)
}

func (t *spannerTx) Update(ctx context.Context, table string, patch Row, conds ...query.Condition) error {
	if len(patch) == 0 {
		return nil
	}
	return wrap(OpUpdate, table, spannerUpdate(ctx, t.txn, table, patch, conds))
}

func (t *spannerTx) Delete(ctx context.Context, table string, conds ...query.Condition) error {
	return wrap(OpDelete, table, spannerDelete(ctx, t.txn, table, conds))
}

// spannerQuerier is satisfied by read-only and read-write transactions.
type spannerQuerier interface {
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

func toSpanner(stmt query.Statement) spanner.Statement {
	return spanner.Statement{SQL: stmt.SQL, Params: stmt.Params}
}

func spannerSelect(ctx context.Context, q spannerQuerier, table string, conds []query.Condition) ([]Row, error) {
	stmt := query.From(table).Where(conds...).Build()
	return collectSpannerRows(q.Query(ctx, toSpanner(stmt)))
}

func spannerInsert(ctx context.Context, txn *spanner.ReadWriteTransaction, table string, rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		stmt := query.InsertInto(table).Values(row).Returning().Build()
		inserted, err := collectSpannerRows(txn.Query(ctx, toSpanner(stmt)))
		if err != nil {
			return nil, err
		}
		out = append(out, inserted...)
	}
	return out, nil
}

func spannerUpdate(ctx context.Context, txn *spanner.ReadWriteTransaction, table string, patch Row, conds []query.Condition) error {
	stmt := query.Update(table).SetAll(patch).Where(conds...).Build()
	_, err := txn.Update(ctx, toSpanner(stmt))
	return err
}

func spannerDelete(ctx context.Context, txn *spanner.ReadWriteTransaction, table string, conds []query.Condition) error {
	stmt := query.DeleteFrom(table).Where(conds...).Build()
	_, err := txn.Update(ctx, toSpanner(stmt))
	return err
}

func collectSpannerRows(iter *spanner.RowIterator) ([]Row, error) {
	defer iter.Stop()

	var out []Row
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		decoded, err := decodeSpannerRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// decodeSpannerRow reads every column through GenericColumnValue so rows of
// any table decode without a per-table struct.
func decodeSpannerRow(row *spanner.Row) (Row, error) {
	out := make(Row, row.Size())
	for i, name := range row.ColumnNames() {
		var gcv spanner.GenericColumnValue
		if err := row.Column(i, &gcv); err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", name, err)
		}
		v, err := decodeGeneric(gcv)
		if err != nil {
			return nil, fmt.Errorf("failed to decode column %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func decodeGeneric(gcv spanner.GenericColumnValue) (interface{}, error) {
	switch gcv.Type.Code {
	case sppb.TypeCode_INT64:
		var v spanner.NullInt64
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Int64, nil
	case sppb.TypeCode_STRING:
		var v spanner.NullString
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.StringVal, nil
	case sppb.TypeCode_FLOAT64:
		var v spanner.NullFloat64
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Float64, nil
	case sppb.TypeCode_BOOL:
		var v spanner.NullBool
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Bool, nil
	case sppb.TypeCode_TIMESTAMP:
		var v spanner.NullTime
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Time, nil
	case sppb.TypeCode_JSON:
		var v spanner.NullJSON
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.String(), nil
	case sppb.TypeCode_NUMERIC:
		var v spanner.NullNumeric
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		f, exact := v.Numeric.Float64()
		if !exact {
			return nil, fmt.Errorf("numeric %s is not representable as float64", v.Numeric.FloatString(9))
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", gcv.Type.Code)
	}
}

var (
	_ Store      = (*SpannerStore)(nil)
	_ Transactor = (*SpannerStore)(nil)
	_ Querier    = (*SpannerStore)(nil)
	_ Store      = (*spannerTx)(nil)
)
