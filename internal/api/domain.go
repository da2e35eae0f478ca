package api

import (
	"github.com/JaimeStill/promptstore/internal/prompts"
	"github.com/JaimeStill/promptstore/internal/templates"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts   prompts.System
	Templates templates.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		prompts.Config{
			Pagination:  runtime.Pagination,
			Types:       runtime.Catalog.PromptTypes,
			MaxBodySize: runtime.MaxBodySize,
			Verbose:     runtime.Verbose,
		},
	)

	templatesSystem := templates.New(
		runtime.Database.Connection(),
		runtime.Logger,
		templates.Config{
			Categories:  runtime.Catalog.TemplateCategories,
			MaxBodySize: runtime.MaxBodySize,
			Verbose:     runtime.Verbose,
		},
	)

	return &Domain{
		Prompts:   promptsSystem,
		Templates: templatesSystem,
	}
}
