package query

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`"[^"]*"|\S+`)

// TextQuery is a keyword parsed for PostgreSQL full text search.
// Terms are sanitized words matched as required prefixes.
// Phrases are the contents of double-quoted segments, kept verbatim.
// Raw is the trimmed keyword, used when neither terms nor phrases survive parsing.
type TextQuery struct {
	Terms   []string
	Phrases []string
	Raw     string
}

// ParseTextQuery splits keyword on whitespace, treating double-quoted segments as phrases.
func ParseTextQuery(keyword string) TextQuery {
	q := TextQuery{Raw: strings.TrimSpace(keyword)}

	for _, token := range tokenPattern.FindAllString(q.Raw, -1) {
		if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
			if phrase := strings.TrimSpace(token[1 : len(token)-1]); phrase != "" {
				q.Phrases = append(q.Phrases, phrase)
			}
			continue
		}

		if term := SanitizeTerm(token); term != "" {
			q.Terms = append(q.Terms, term)
		}
	}

	return q
}

// SanitizeTerm keeps letters, digits, underscore and hyphen.
// Returns "" when no letter or digit remains.
func SanitizeTerm(token string) string {
	var (
		sb       strings.Builder
		hasAlnum bool
	)
	for _, r := range token {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			hasAlnum = true
			sb.WriteRune(r)
		case r == '_', r == '-':
			sb.WriteRune(r)
		}
	}
	if !hasAlnum {
		return ""
	}
	return sb.String()
}

// HasTerms reports whether any sanitized term survived.
func (q TextQuery) HasTerms() bool {
	return len(q.Terms) > 0
}

// Empty reports whether the query has nothing to match.
func (q TextQuery) Empty() bool {
	return len(q.Terms) == 0 && len(q.Phrases) == 0 && q.Raw == ""
}

// Prefix renders the terms as a to_tsquery expression where every term is a
// required prefix match, e.g. "prompt:* & agent:*".
func (q TextQuery) Prefix() string {
	parts := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		parts[i] = t + ":*"
	}
	return strings.Join(parts, " & ")
}
