// Package templates manages reusable prompt templates addressed by id or by
// their natural key, a category and key pair. Templates are deactivated rather
// than removed.
package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// Template is a labeled JSON payload within a category.
// Payload is omitted from list responses unless requested.
type Template struct {
	ID        int64           `json:"id"`
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Category  string          `json:"category"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	IsActive  bool            `json:"is_active"`
	SortOrder int             `json:"sort_order"`
	Version   int             `json:"version"`
}

// Flag is a boolean that also accepts 0 and 1 as sent by form-driven clients.
type Flag bool

// UnmarshalJSON accepts true, false, 0, 1, and their quoted forms.
func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "true", "1", `"1"`, `"true"`:
		*f = true
	case "false", "0", `"0"`, `"false"`:
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", b)
	}
	return nil
}

// UpsertCommand carries a template to create or replace by natural key.
// Unset optional fields take their defaults: active, sort order 0, version 1.
type UpsertCommand struct {
	Category  string          `json:"category"`
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Payload   json.RawMessage `json:"payload"`
	IsActive  *Flag           `json:"is_active"`
	SortOrder *int            `json:"sort_order"`
	Version   *int            `json:"version"`
}

// UpsertResult identifies the affected row and whether it was inserted.
type UpsertResult struct {
	ID      int64 `json:"id"`
	Created bool  `json:"created"`
}

// Validate trims the text fields and checks them along with the payload shape.
func (c *UpsertCommand) Validate(categories allowlist.List) error {
	c.Category = strings.TrimSpace(c.Category)
	c.Key = strings.TrimSpace(c.Key)
	c.Label = strings.TrimSpace(c.Label)

	if !categories.Contains(c.Category) {
		return fmt.Errorf("%w: allowed %s", ErrInvalidCategory, categories)
	}
	if c.Key == "" {
		return fmt.Errorf("%w: key", ErrMissingField)
	}
	if c.Label == "" {
		return fmt.Errorf("%w: label", ErrMissingField)
	}
	if !structured(c.Payload) {
		return ErrInvalidPayload
	}
	if err := rejectNul(c.Key, c.Label, c.Payload); err != nil {
		return err
	}
	return nil
}

// rejectNul fails fields PostgreSQL would refuse to store.
func rejectNul(key, label string, payload json.RawMessage) error {
	switch {
	case repository.ContainsNul(key):
		return fmt.Errorf("key %w", repository.ErrNulCharacter)
	case repository.ContainsNul(label):
		return fmt.Errorf("label %w", repository.ErrNulCharacter)
	case repository.JSONContainsNul(payload):
		return fmt.Errorf("payload %w", repository.ErrNulCharacter)
	}
	return nil
}

func (c *UpsertCommand) active() bool {
	return c.IsActive == nil || bool(*c.IsActive)
}

func (c *UpsertCommand) sortOrder() int {
	if c.SortOrder == nil {
		return 0
	}
	return *c.SortOrder
}

func (c *UpsertCommand) version() int {
	if c.Version == nil {
		return 1
	}
	return *c.Version
}

// structured reports whether raw is a JSON object or array.
func structured(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}

// Address locates one template by ID, or by Category and Key when ID is zero.
type Address struct {
	ID       int64
	Category string
	Key      string
}

// ByID reports whether the address uses the id.
func (a Address) ByID() bool {
	return a.ID > 0
}

func (a Address) String() string {
	if a.ByID() {
		return strconv.FormatInt(a.ID, 10)
	}
	return a.Category + "/" + a.Key
}

// Validate requires one addressing mode. With checkCategory set, a natural key
// address must name an allowed category.
func (a *Address) Validate(categories allowlist.List, checkCategory bool) error {
	if a.ByID() {
		return nil
	}

	a.Category = strings.TrimSpace(a.Category)
	a.Key = strings.TrimSpace(a.Key)

	if a.Category == "" || a.Key == "" {
		return ErrMissingAddress
	}
	if checkCategory && !categories.Contains(a.Category) {
		return fmt.Errorf("%w: allowed %s", ErrInvalidCategory, categories)
	}
	return nil
}
