package api

import (
	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
	"github.com/JaimeStill/promptstore/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	Catalog     config.CatalogConfig
	MaxBodySize int64
	Verbose     bool
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Metrics:   infra.Metrics,
		},
		Pagination:  cfg.API.Pagination,
		Catalog:     cfg.Catalog,
		MaxBodySize: cfg.API.MaxBodySizeBytes(),
		Verbose:     cfg.Debug,
	}
}
