// Package repository holds the small generic helpers every store uses to run
// statements against database/sql: transactions, row scanning and affected-row checks.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier reads rows. *sql.DB, *sql.Tx and *sql.Conn satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor runs statements that return no rows.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner is the common surface of *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc turns one row into a T.
type ScanFunc[T any] func(Scanner) (T, error)

// WithTx runs fn inside a transaction and commits only if fn succeeds.
// The deferred rollback is a no-op after a successful commit.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (result T, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if result, err = fn(tx); err != nil {
		var zero T
		return zero, err
	}

	if err = tx.Commit(); err != nil {
		var zero T
		return zero, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// QueryOne scans the first row of query. A missing row surfaces as sql.ErrNoRows.
func QueryOne[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(q.QueryRowContext(ctx, query, args...))
}

// QueryMany scans every row of query. No rows yields an empty, non-nil slice.
func QueryMany[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scan)
}

func collect[T any](rows *sql.Rows, scan ScanFunc[T]) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// QueryScalar reads a single column of a single row, such as COUNT(*).
func QueryScalar[T any](ctx context.Context, q Querier, query string, args ...any) (v T, err error) {
	err = q.QueryRowContext(ctx, query, args...).Scan(&v)
	return v, err
}

// ExecAffected runs a statement and reports how many rows it touched.
func ExecAffected(ctx context.Context, e Executor, query string, args ...any) (int64, error) {
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExecExpectOne is ExecAffected for statements that must touch a row;
// touching none returns sql.ErrNoRows so callers can map it with MapError.
func ExecExpectOne(ctx context.Context, e Executor, query string, args ...any) error {
	switch n, err := ExecAffected(ctx, e, query, args...); {
	case err != nil:
		return err
	case n == 0:
		return sql.ErrNoRows
	}
	return nil
}
