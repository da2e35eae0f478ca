// Package prompts implements the saved prompt domain: storing generated prompts,
// removing them, and searching them with keyword and type filters.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// MaxTitleLength is the longest title stored, in code points.
const MaxTitleLength = 255

// Prompt is a generated prompt with the form data that produced it.
type Prompt struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	GeneratedPrompt string          `json:"generated_prompt"`
	PromptData      json.RawMessage `json:"prompt_data"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SaveCommand carries the data needed to store a new prompt.
// Fields are pointers so an absent field can be told apart from an empty one.
type SaveCommand struct {
	Type            *string         `json:"type"`
	Title           *string         `json:"title"`
	GeneratedPrompt *string         `json:"generated_prompt"`
	PromptData      json.RawMessage `json:"prompt_data"`
}

// Validate checks required fields and the type allow-list, trims type and title,
// and truncates the title to MaxTitleLength code points.
func (c *SaveCommand) Validate(types allowlist.List) error {
	switch {
	case c.Type == nil:
		return fmt.Errorf("%w: type", ErrMissingField)
	case c.Title == nil:
		return fmt.Errorf("%w: title", ErrMissingField)
	case c.GeneratedPrompt == nil:
		return fmt.Errorf("%w: generated_prompt", ErrMissingField)
	case c.PromptData == nil:
		return fmt.Errorf("%w: prompt_data", ErrMissingField)
	}

	t := strings.TrimSpace(*c.Type)
	if !types.Contains(t) {
		return fmt.Errorf("%w: allowed %s", ErrInvalidType, types)
	}
	c.Type = &t

	title := truncate(strings.TrimSpace(*c.Title), MaxTitleLength)
	if title == "" {
		return ErrEmptyTitle
	}
	c.Title = &title

	switch {
	case repository.ContainsNul(title):
		return fmt.Errorf("title %w", repository.ErrNulCharacter)
	case repository.ContainsNul(*c.GeneratedPrompt):
		return fmt.Errorf("generated_prompt %w", repository.ErrNulCharacter)
	case repository.JSONContainsNul(c.PromptData):
		return fmt.Errorf("prompt_data %w", repository.ErrNulCharacter)
	}

	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func ptr[T any](v T) *T {
	return &v
}
