package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNulCharacter reports text PostgreSQL cannot store: text columns reject
// NUL bytes and jsonb rejects the \u0000 escape.
var ErrNulCharacter = errors.New(`contains a NUL (\u0000) character`)

// ContainsNul reports whether s holds a NUL byte.
func ContainsNul(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}

// JSONContainsNul reports whether any string or key in raw decodes to text
// holding a NUL. Malformed JSON reports false and is left to other validation.
func JSONContainsNul(raw []byte) bool {
	if !bytes.Contains(raw, []byte(`\u0000`)) {
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if s, ok := tok.(string); ok && ContainsNul(s) {
			return true
		}
	}
}

