package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore implements Store on PostgreSQL through sqlx and the pgx
// stdlib driver.
type PostgresStore struct {
	db *sqlx.DB
}

// OpenPostgres opens a pooled connection for dsn.
func OpenPostgres(ctx context.Context, dsn string, pool PoolConfig) (*PostgresStore, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)

	db, err := sqlx.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an open sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Dialect implements Querier.
func (s *PostgresStore) Dialect() query.Dialect {
	return query.Postgres
}

// Query implements Querier. table only labels errors.
func (s *PostgresStore) Query(ctx context.Context, table string, stmt query.Statement) ([]Row, error) {
	rows, err := pgQuery(ctx, s.db, stmt)
	return rows, wrap(OpSelect, table, err)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Select implements Store.
func (s *PostgresStore) Select(ctx context.Context, table string, conds ...query.Condition) ([]Row, error) {
	rows, err := pgSelect(ctx, s.db, table, conds)
	return rows, wrap(OpSelect, table, err)
}

// Insert implements Store. Multi-row inserts commit together.
func (s *PostgresStore) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var out []Row
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		out, err = pgInsert(ctx, tx, table, rows)
		return err
	})
	return out, wrap(OpInsert, table, err)
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, table string, patch Row, conds ...query.Condition) error {
	if len(patch) == 0 {
		return nil
	}
	return wrap(OpUpdate, table, pgUpdate(ctx, s.db, table, patch, conds))
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, table string, conds ...query.Condition) error {
	return wrap(OpDelete, table, pgDelete(ctx, s.db, table, conds))
}

// RunInTransaction implements Transactor.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return fn(ctx, &pgTx{tx: tx})
	})
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// pgTx is the Store view of one database transaction.
type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) Select(ctx context.Context, table string, conds ...query.Condition) ([]Row, error) {
	rows, err := pgSelect(ctx, t.tx, table, conds)
	return rows, wrap(OpSelect, table, err)
}

func (t *pgTx) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	out, err := pgInsert(ctx, t.tx, table, rows)
	return out, wrap(OpInsert, table, err)
}

func (t *pgTx) Update(ctx context.Context, table string, patch Row, conds ...query.Condition) error {
	if len(patch) == 0 {
		return nil
	}
	return wrap(OpUpdate, table, pgUpdate(ctx, t.tx, table, patch, conds))
}

func (t *pgTx) Delete(ctx context.Context, table string, conds ...query.Condition) error {
	return wrap(OpDelete, table, pgDelete(ctx, t.tx, table, conds))
}

// bind turns a named statement into positional SQL, expanding slice
// parameters used by IN conditions.
func bind(ext sqlx.ExtContext, stmt query.Statement) (string, []interface{}, error) {
	q, args, err := sqlx.Named(stmt.SQL, stmt.Params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind named parameters: %w", err)
	}
	q, args, err = sqlx.In(q, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand list parameters: %w", err)
	}
	return ext.Rebind(q), args, nil
}

func pgQuery(ctx context.Context, ext sqlx.ExtContext, stmt query.Statement) ([]Row, error) {
	q, args, err := bind(ext, stmt)
	if err != nil {
		return nil, err
	}
	rows, err := ext.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		m := make(map[string]interface{})
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, Row(m).Clone())
	}
	return out, rows.Err()
}

func pgExec(ctx context.Context, ext sqlx.ExtContext, stmt query.Statement) error {
	q, args, err := bind(ext, stmt)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, q, args...)
	return err
}

func pgSelect(ctx context.Context, ext sqlx.ExtContext, table string, conds []query.Condition) ([]Row, error) {
	return pgQuery(ctx, ext, query.From(table).Dialect(query.Postgres).Where(conds...).Build())
}

func pgInsert(ctx context.Context, ext sqlx.ExtContext, table string, rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		stmt := query.InsertInto(table).Dialect(query.Postgres).Values(row).Returning().Build()
		inserted, err := pgQuery(ctx, ext, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, inserted...)
	}
	return out, nil
}

func pgUpdate(ctx context.Context, ext sqlx.ExtContext, table string, patch Row, conds []query.Condition) error {
	return pgExec(ctx, ext, query.Update(table).Dialect(query.Postgres).SetAll(patch).Where(conds...).Build())
}

func pgDelete(ctx context.Context, ext sqlx.ExtContext, table string, conds []query.Condition) error {
	return pgExec(ctx, ext, query.DeleteFrom(table).Dialect(query.Postgres).Where(conds...).Build())
}

var (
	_ Store      = (*PostgresStore)(nil)
	_ Transactor = (*PostgresStore)(nil)
	_ Querier    = (*PostgresStore)(nil)
	_ Store      = (*pgTx)(nil)
)
