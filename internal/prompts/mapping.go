package prompts

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/query"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// MaxKeywordLength caps the search keyword, in code points.
const MaxKeywordLength = 200

const (
	tableSchema      = "public"
	tableName        = "prompts"
	softDeleteColumn = "deleted_at"
	textSearchColumn = "generated_prompt"

	// textSearchConfig must match the configuration used by the GIN index
	// expression for the planner to use it.
	textSearchConfig = "simple"
)

var projection = query.
	NewProjectionMap(tableSchema, tableName, "p").
	Project("id", "ID").
	Project("type", "Type").
	Project("title", "Title").
	Project("generated_prompt", "GeneratedPrompt").
	Project("prompt_data", "PromptData").
	Project("created_at", "CreatedAt")

var deletedAt = projection.Alias() + "." + softDeleteColumn

var sortColumns = map[string]string{
	"created_at": "CreatedAt",
	"title":      "Title",
	"type":       "Type",
}

// SearchMode selects how the keyword is matched.
type SearchMode string

const (
	SearchAuto     SearchMode = "auto"
	SearchLike     SearchMode = "like"
	SearchFulltext SearchMode = "fulltext"
)

// ParseSearchMode returns the matching mode, defaulting to SearchAuto.
func ParseSearchMode(s string) SearchMode {
	switch m := SearchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SearchLike, SearchFulltext:
		return m
	}
	return SearchAuto
}

// Filters contains normalized search criteria.
// Type is nil when no type filter applies. SortBy is a projection field name.
type Filters struct {
	Type           *string
	Keyword        string
	SortBy         string
	Descending     bool
	Mode           SearchMode
	IncludeDeleted bool
}

// FiltersFromQuery extracts and normalizes filter values from URL query parameters.
// A type outside the allow-list (including "All") disables the type filter.
func FiltersFromQuery(values url.Values, types allowlist.List) Filters {
	f := Filters{
		Keyword:        normalizeKeyword(values.Get("keyword")),
		SortBy:         sortColumns["created_at"],
		Descending:     true,
		Mode:           ParseSearchMode(values.Get("search_mode")),
		IncludeDeleted: parseFlag(values.Get("include_deleted")),
	}

	if t := strings.TrimSpace(values.Get("type")); types.Contains(t) {
		f.Type = &t
	}

	if col, ok := sortColumns[strings.ToLower(strings.TrimSpace(values.Get("sort_by")))]; ok {
		f.SortBy = col
	}

	if strings.EqualFold(strings.TrimSpace(values.Get("sort_dir")), "asc") {
		f.Descending = false
	}

	return f
}

// Apply adds filter conditions and ordering to a query builder.
func (f Filters) Apply(b *query.Builder, caps Capabilities) *query.Builder {
	if caps.SoftDelete && !f.IncludeDeleted {
		b.WhereIsNull(deletedAt)
	}

	b.WhereEquals("Type", f.Type)

	if f.Keyword != "" {
		if f.fulltext(caps) {
			b.WhereTextSearch(textSearchConfig, query.ParseTextQuery(f.Keyword), "Title", "GeneratedPrompt")
		} else {
			b.WhereSearch(&f.Keyword, "Title", "GeneratedPrompt")
		}
	}

	return b.OrderByFields(
		query.SortField{Field: f.SortBy, Descending: f.Descending},
		query.SortField{Field: "ID", Descending: f.Descending},
	)
}

// fulltext reports whether the keyword is matched with text search.
// Auto mode requires the text search index; an explicit request does not.
func (f Filters) fulltext(caps Capabilities) bool {
	switch f.Mode {
	case SearchFulltext:
		return true
	case SearchLike:
		return false
	}
	return caps.FullText
}

func normalizeKeyword(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxKeywordLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxKeywordLength]))
	}
	return s
}

func parseFlag(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var (
		p    Prompt
		data []byte
	)
	err := s.Scan(
		&p.ID,
		&p.Type,
		&p.Title,
		&p.GeneratedPrompt,
		&data,
		&p.CreatedAt,
	)
	p.PromptData = data
	return p, err
}
