// Package allowlist holds small sets of permitted string values loaded from configuration.
package allowlist

import (
	"fmt"
	"slices"
	"strings"
)

// List is an ordered set of permitted values. Matching is exact.
type List []string

// Contains reports whether v is permitted.
func (l List) Contains(v string) bool {
	return slices.Contains(l, v)
}

// String renders the list as "a|b|c" for error messages.
func (l List) String() string {
	return strings.Join(l, "|")
}

// Normalize trims entries, drops blanks and duplicates, and preserves order.
func (l List) Normalize() List {
	out := make(List, 0, len(l))
	for _, v := range l {
		v = strings.TrimSpace(v)
		if v == "" || out.Contains(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Validate returns an error when the list permits nothing.
func (l List) Validate(name string) error {
	if len(l) == 0 {
		return fmt.Errorf("%s: at least one value required", name)
	}
	return nil
}

// Parse splits a comma-separated value into a normalized List.
func Parse(v string) List {
	return List(strings.Split(v, ",")).Normalize()
}
