package config

import (
	"os"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
)

const (
	EnvCatalogPromptTypes        = "PROMPTSTORE_CATALOG_PROMPT_TYPES"
	EnvCatalogTemplateCategories = "PROMPTSTORE_CATALOG_TEMPLATE_CATEGORIES"
)

// CatalogConfig holds the permitted prompt types and template categories.
type CatalogConfig struct {
	PromptTypes        allowlist.List `toml:"prompt_types"`
	TemplateCategories allowlist.List `toml:"template_categories"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CatalogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	c.PromptTypes = c.PromptTypes.Normalize()
	c.TemplateCategories = c.TemplateCategories.Normalize()

	if err := c.PromptTypes.Validate("prompt_types"); err != nil {
		return err
	}
	return c.TemplateCategories.Validate("template_categories")
}

// Merge overwrites lists that the overlay sets.
func (c *CatalogConfig) Merge(overlay *CatalogConfig) {
	if overlay.PromptTypes != nil {
		c.PromptTypes = overlay.PromptTypes
	}
	if overlay.TemplateCategories != nil {
		c.TemplateCategories = overlay.TemplateCategories
	}
}

func (c *CatalogConfig) loadDefaults() {
	if len(c.PromptTypes) == 0 {
		c.PromptTypes = allowlist.List{"tcrei", "design", "agent"}
	}
	if len(c.TemplateCategories) == 0 {
		c.TemplateCategories = allowlist.List{"agent", "tcrei", "design"}
	}
}

func (c *CatalogConfig) loadEnv() {
	if v := os.Getenv(EnvCatalogPromptTypes); v != "" {
		c.PromptTypes = allowlist.Parse(v)
	}
	if v := os.Getenv(EnvCatalogTemplateCategories); v != "" {
		c.TemplateCategories = allowlist.Parse(v)
	}
}
