// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"time"

	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/module"
)

const capabilityTimeout = 10 * time.Second

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	m := module.New(
		cfg.API.BasePath,
		runtime.Logger,
		domain.Prompts.Handler().Routes(),
		domain.Templates.Handler().Routes(),
	)

	// Metrics stays innermost so it observes the pattern matched by the mux.
	m.Use(
		middleware.RequestID(),
		middleware.Logger(runtime.Logger),
		middleware.CORS(&cfg.API.CORS),
		middleware.Timeout(cfg.API.RequestTimeoutDuration()),
		middleware.NewMetrics(runtime.Metrics, infrastructure.MetricsNamespace).Middleware(),
	)

	warmCapabilities(runtime, domain)

	return m, nil
}

// warmCapabilities resolves the prompt table capabilities during startup.
// A failure is logged and left for the first search to retry, so readiness
// does not depend on the order of startup hooks.
func warmCapabilities(runtime *Runtime, domain *Domain) {
	runtime.Lifecycle.OnStartup(func() error {
		ctx, cancel := context.WithTimeout(runtime.Lifecycle.Context(), capabilityTimeout)
		defer cancel()

		if _, err := domain.Prompts.Capabilities(ctx); err != nil {
			runtime.Logger.Warn("prompt capabilities unresolved at startup", "error", err)
		}
		return nil
	})
}
