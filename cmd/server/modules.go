package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/promptstore/internal/api"
	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/module"
	"github.com/JaimeStill/promptstore/pkg/routes"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type statusResponse struct {
	handlers.Envelope
	Status string `json:"status"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter(infra.Logger)
	metrics := promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{})

	router.HandleNative(routes.Group{
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "/healthz",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handlers.RespondJSON(w, http.StatusOK, statusResponse{handlers.Success(""), "ok"})
				},
			},
			{
				Method:  http.MethodGet,
				Pattern: "/readyz",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					if !infra.Lifecycle.Ready() {
						handlers.RespondJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not ready"})
						return
					}
					handlers.RespondJSON(w, http.StatusOK, statusResponse{handlers.Success(""), "ready"})
				},
			},
			{Method: http.MethodGet, Pattern: "/metrics", Handler: metrics.ServeHTTP},
		},
	})

	return router
}
