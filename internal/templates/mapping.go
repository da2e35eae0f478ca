package templates

import (
	"encoding/json"

	"github.com/JaimeStill/promptstore/pkg/query"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// summary omits the payload; listings add it only on request.
var summary = query.
	NewProjectionMap("public", "prompt_templates", "t").
	Project("id", "ID").
	Project("key", "Key").
	Project("label", "Label").
	Project("category", "Category").
	Project("is_active", "IsActive").
	Project("sort_order", "SortOrder").
	Project("version", "Version")

var projection = summary.Clone().
	Project("payload", "Payload")

var listOrder = []query.SortField{
	{Field: "SortOrder"},
	{Field: "Label"},
}

func scanSummary(s repository.Scanner) (Template, error) {
	var t Template
	err := s.Scan(
		&t.ID,
		&t.Key,
		&t.Label,
		&t.Category,
		&t.IsActive,
		&t.SortOrder,
		&t.Version,
	)
	return t, err
}

func scanTemplate(s repository.Scanner) (Template, error) {
	var (
		t       Template
		payload []byte
	)
	err := s.Scan(
		&t.ID,
		&t.Key,
		&t.Label,
		&t.Category,
		&t.IsActive,
		&t.SortOrder,
		&t.Version,
		&payload,
	)
	t.Payload = json.RawMessage(payload)
	return t, err
}
