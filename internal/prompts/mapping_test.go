package prompts_test

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/promptstore/internal/prompts"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

func TestFiltersFromQueryDefaults(t *testing.T) {
	f := prompts.FiltersFromQuery(url.Values{}, testTypes)

	assert.Nil(t, f.Type)
	assert.Empty(t, f.Keyword)
	assert.Equal(t, "CreatedAt", f.SortBy)
	assert.True(t, f.Descending)
	assert.Equal(t, prompts.SearchAuto, f.Mode)
	assert.False(t, f.IncludeDeleted)
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"type":            {"agent"},
		"keyword":         {strings.Repeat("k", 250)},
		"sort_by":         {"TYPE"},
		"sort_dir":        {"ASC"},
		"search_mode":     {"FullText"},
		"include_deleted": {"true"},
	}

	f := prompts.FiltersFromQuery(values, testTypes)

	if assert.NotNil(t, f.Type) {
		assert.Equal(t, "agent", *f.Type)
	}
	assert.Len(t, f.Keyword, prompts.MaxKeywordLength)
	assert.Equal(t, "Type", f.SortBy)
	assert.False(t, f.Descending)
	assert.Equal(t, prompts.SearchFulltext, f.Mode)
	assert.True(t, f.IncludeDeleted)
}

func TestFiltersFromQueryUnknownValues(t *testing.T) {
	values := url.Values{
		"type":        {"poem"},
		"sort_by":     {"generated_prompt"},
		"search_mode": {"regex"},
	}

	f := prompts.FiltersFromQuery(values, testTypes)

	assert.Nil(t, f.Type)
	assert.Equal(t, "CreatedAt", f.SortBy)
	assert.Equal(t, prompts.SearchAuto, f.Mode)
}

func TestAgentPrompt(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := prompts.AgentPrompt(prompts.SaveCommand{})

		assert.Equal(t, prompts.AgentPromptType, *cmd.Type)
		assert.Equal(t, prompts.AgentPromptTitle, *cmd.Title)
		assert.Equal(t, prompts.AgentPromptText(), *cmd.GeneratedPrompt)
		assert.JSONEq(t, `{}`, string(cmd.PromptData))
		assert.NoError(t, cmd.Validate(testTypes))
	})

	t.Run("blank overrides keep defaults", func(t *testing.T) {
		cmd := prompts.AgentPrompt(prompts.SaveCommand{
			Title:      ptr("  "),
			PromptData: json.RawMessage(`null`),
		})

		assert.Equal(t, prompts.AgentPromptTitle, *cmd.Title)
		assert.JSONEq(t, `{}`, string(cmd.PromptData))
	})

	t.Run("overrides", func(t *testing.T) {
		cmd := prompts.AgentPrompt(prompts.SaveCommand{
			Type:       ptr("design"),
			PromptData: json.RawMessage(`{"k":1}`),
		})

		assert.Equal(t, "design", *cmd.Type)
		assert.JSONEq(t, `{"k":1}`, string(cmd.PromptData))
	})
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, prompts.MapHTTPStatus(prompts.ErrNotFound))
	assert.Equal(t, 400, prompts.MapHTTPStatus(prompts.ErrInvalidType))
	assert.Equal(t, 400, prompts.MapHTTPStatus(prompts.ErrInvalidID))
	assert.Equal(t, 400, prompts.MapHTTPStatus(fmt.Errorf("payload %w", repository.ErrNulCharacter)))
	assert.Equal(t, 500, prompts.MapHTTPStatus(assert.AnError))
}
