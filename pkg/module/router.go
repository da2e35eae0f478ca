package module

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/promptstore/pkg/routes"
)

// Router is the top-level handler. Modules and native route groups share one
// ServeMux, so a module prefix wins over the catch-all JSON 404 by ServeMux
// precedence rather than by a separate lookup.
type Router struct {
	mux    *http.ServeMux
	logger *slog.Logger
}

// NewRouter creates a Router whose unmatched paths receive a JSON 404.
func NewRouter(logger *slog.Logger) *Router {
	mux := http.NewServeMux()
	routes.NotFound(mux, logger)
	return &Router{mux: mux, logger: logger}
}

// HandleNative registers route groups that are served without a module.
func (r *Router) HandleNative(groups ...routes.Group) {
	routes.Register(r.mux, r.logger, groups...)
}

// Mount routes the module's prefix and everything beneath it to m.
// Mounting two modules with the same prefix panics.
func (r *Router) Mount(m *Module) {
	r.mux.Handle(m.prefix, m)
	r.mux.Handle(m.prefix+"/", m)
}

// ServeHTTP drops a single trailing slash before dispatch so "/x/" and "/x"
// reach the same route. The caller's request is left untouched.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req = cloneRequest(req, strings.TrimSuffix(p, "/"))
	}
	r.mux.ServeHTTP(w, req)
}
