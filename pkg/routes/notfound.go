package routes

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptstore/pkg/handlers"
)

// NotFound registers a catch-all on mux that answers unmatched paths with a JSON 404.
// Call it once per mux; any more specific pattern still takes precedence.
func NotFound(mux *http.ServeMux, logger *slog.Logger) {
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, logger, http.StatusNotFound, handlers.ErrRouteNotFound)
	})
}
