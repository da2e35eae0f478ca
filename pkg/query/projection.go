// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of table columns onto Go field names.
package query

import (
	"slices"
	"strings"
)

type column struct {
	field     string
	qualified string
}

// ProjectionMap lists the columns a query selects, in order, and resolves
// Go field names used in filters and sorts to alias-qualified columns.
type ProjectionMap struct {
	table   string
	alias   string
	columns []column
}

// NewProjectionMap starts a projection over schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{table: schema + "." + table, alias: alias}
}

// Project appends column, selected as field. Later calls for the same
// field replace its column but keep its position.
func (p *ProjectionMap) Project(col, field string) *ProjectionMap {
	c := column{field: field, qualified: p.alias + "." + col}
	if i := p.index(field); i >= 0 {
		p.columns[i] = c
	} else {
		p.columns = append(p.columns, c)
	}
	return p
}

// Clone returns a copy that can be extended without affecting p.
func (p *ProjectionMap) Clone() *ProjectionMap {
	c := *p
	c.columns = slices.Clone(p.columns)
	return &c
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM clause target, e.g. "public.prompts p".
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Column resolves field to its qualified column. Unknown fields are returned
// as given so callers may pass raw SQL expressions.
func (p *ProjectionMap) Column(field string) string {
	if i := p.index(field); i >= 0 {
		return p.columns[i].qualified
	}
	return field
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	var sb strings.Builder
	for i, c := range p.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.qualified)
	}
	return sb.String()
}

// Len reports how many columns are projected.
func (p *ProjectionMap) Len() int {
	return len(p.columns)
}

func (p *ProjectionMap) index(field string) int {
	return slices.IndexFunc(p.columns, func(c column) bool { return c.field == field })
}
