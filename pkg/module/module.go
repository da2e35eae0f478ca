// Package module mounts self-contained HTTP sub-applications under a path prefix.
package module

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/routes"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner mux
// with its own middleware stack.
type Module struct {
	prefix     string
	mux        *http.ServeMux
	middleware middleware.Stack

	once    sync.Once
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api") and
// registers the route groups on its mux. Unmatched paths under the prefix
// receive a JSON 404.
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, logger *slog.Logger, groups ...routes.Group) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	routes.Register(mux, logger, groups...)
	routes.NotFound(mux, logger)

	return &Module{
		prefix: prefix,
		mux:    mux,
	}
}

// Handler returns the inner mux wrapped with the module's middleware stack.
// The stack is assembled on first use; middleware added afterwards is ignored.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.mux)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// ServeHTTP strips the module prefix from the request path and dispatches to the inner mux.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := extractPath(req.URL.Path, m.prefix)
	request := cloneRequest(req, path)
	m.Handler().ServeHTTP(w, request)
}

// Use adds middleware to the module's stack. The first added is outermost.
func (m *Module) Use(mw ...middleware.Middleware) {
	m.middleware.Use(mw...)
}

func cloneRequest(req *http.Request, path string) *http.Request {
	request := new(http.Request)
	*request = *req
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = ""
	return request
}

func extractPath(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
