// Package schema inspects the live PostgreSQL catalog for optional table features
// so queries can adapt to the deployed schema instead of assuming it.
package schema

import (
	"context"
	"fmt"

	"github.com/JaimeStill/promptstore/pkg/query"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

const hasColumnSQL = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
		)`

const hasTextSearchIndexSQL = `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = $1 AND tablename = $2
			  AND indexdef ILIKE '%to_tsvector%'
			  AND indexdef ILIKE $3
		)`

// Inspector answers catalog questions about tables.
type Inspector struct {
	q repository.Querier
}

// NewInspector creates an Inspector that runs catalog queries through q.
func NewInspector(q repository.Querier) *Inspector {
	return &Inspector{q: q}
}

// HasColumn reports whether schema.table has the named column.
func (i *Inspector) HasColumn(ctx context.Context, schema, table, column string) (bool, error) {
	ok, err := repository.QueryScalar[bool](ctx, i.q, hasColumnSQL, schema, table, column)
	if err != nil {
		return false, fmt.Errorf("inspect column %s.%s.%s: %w", schema, table, column, err)
	}
	return ok, nil
}

// HasTextSearchIndex reports whether schema.table has an expression index built on
// to_tsvector that references column.
func (i *Inspector) HasTextSearchIndex(ctx context.Context, schema, table, column string) (bool, error) {
	pattern := "%" + query.EscapeLike(column) + "%"
	ok, err := repository.QueryScalar[bool](ctx, i.q, hasTextSearchIndexSQL, schema, table, pattern)
	if err != nil {
		return false, fmt.Errorf("inspect text search index on %s.%s: %w", schema, table, err)
	}
	return ok, nil
}
