package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// binder appends a value to the argument list and returns its placeholder.
type binder func(v any) string

// condition renders one WHERE predicate, binding its values as it goes so
// placeholders are numbered in the order predicates were added.
type condition func(bind binder) string

// SortField is one ORDER BY term. Field is resolved through the projection.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements over a ProjectionMap. Values given to
// the Where methods are always bound as parameters; only projected columns,
// sort directions and the text search configuration reach the SQL text.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder that orders by defaultSort unless OrderByFields is called.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// Build returns the filtered, ordered SELECT.
func (b *Builder) Build() (string, []any) {
	return b.render(b.projection.Columns(), true, "")
}

// BuildCount returns SELECT COUNT(*) with the same predicates as Build.
func (b *Builder) BuildCount() (string, []any) {
	return b.render("COUNT(*)", false, "")
}

// BuildPage is Build with LIMIT and OFFSET for a 1-based page. Its
// arguments always match BuildCount's so one filter serves both queries.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	offset := max((page-1)*pageSize, 0)
	return b.render(b.projection.Columns(), true, fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset))
}

// BuildSingle selects the row whose idField equals id, ignoring other predicates.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := "SELECT " + b.projection.Columns() +
		" FROM " + b.projection.Table() +
		" WHERE " + b.projection.Column(idField) + " = $1"
	return sql, []any{id}
}

// BuildSingleOrNull selects at most one row matching the predicates.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	return b.render(b.projection.Columns(), false, " LIMIT 1")
}

// OrderByFields replaces the default ordering.
func (b *Builder) OrderByFields(fields ...SortField) *Builder {
	b.order = fields
	return b
}

// WhereEquals adds field = value. A nil value, including a typed nil pointer,
// adds nothing so optional filters can be passed straight through.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.where(func(bind binder) string {
		return col + " = " + bind(value)
	})
}

// WhereIsNull adds field IS NULL.
func (b *Builder) WhereIsNull(field string) *Builder {
	col := b.projection.Column(field)
	return b.where(func(binder) string {
		return col + " IS NULL"
	})
}

// WhereSearch matches search as a case-insensitive substring of any of fields.
// LIKE metacharacters in search are matched literally. Nil or empty search adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + EscapeLike(*search) + "%"
	cols := b.columns(fields)

	return b.where(func(bind binder) string {
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	})
}

// WhereTextSearch matches q against to_tsvector(config, f1 || ' ' || f2 ...).
// That document expression must equal the one in the expression index for
// the planner to use it. An empty q adds nothing.
func (b *Builder) WhereTextSearch(config string, q TextQuery, fields ...string) *Builder {
	if q.Empty() || len(fields) == 0 {
		return b
	}

	lit := quoteLiteral(config)
	document := "to_tsvector(" + lit + ", " + strings.Join(b.columns(fields), " || ' ' || ") + ")"

	return b.where(func(bind binder) string {
		var queries []string
		if q.HasTerms() {
			queries = append(queries, "to_tsquery("+lit+", "+bind(q.Prefix())+")")
		}
		for _, phrase := range q.Phrases {
			queries = append(queries, "phraseto_tsquery("+lit+", "+bind(phrase)+")")
		}
		if len(queries) == 0 {
			queries = append(queries, "plainto_tsquery("+lit+", "+bind(q.Raw)+")")
		}
		return document + " @@ (" + strings.Join(queries, " && ") + ")"
	})
}

// EscapeLike escapes %, _ and the backslash escape character for LIKE patterns.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (b *Builder) where(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) columns(fields []string) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	return cols
}

func (b *Builder) render(selectList string, ordered bool, tail string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + selectList + " FROM " + b.projection.Table())

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for i, c := range b.conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c(bind))
	}

	if ordered {
		sb.WriteString(b.orderBy())
	}
	sb.WriteString(tail)

	return sb.String(), args
}

func (b *Builder) orderBy() string {
	fields := b.order
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts[i] = b.projection.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
