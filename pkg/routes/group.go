package routes

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/promptstore/pkg/handlers"
)

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
// Routes sharing a path are dispatched by method; a request with any other
// method receives a JSON 405 with an Allow header.
func Register(mux *http.ServeMux, logger *slog.Logger, groups ...Group) {
	paths := make(map[string]map[string]http.HandlerFunc)
	var order []string

	for _, group := range groups {
		collect(paths, &order, "", group)
	}

	for _, path := range order {
		mux.Handle(path, dispatch(paths[path], logger))
	}
}

func collect(paths map[string]map[string]http.HandlerFunc, order *[]string, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		path := fullPrefix + route.Pattern
		if _, ok := paths[path]; !ok {
			paths[path] = make(map[string]http.HandlerFunc)
			*order = append(*order, path)
		}
		paths[path][route.Method] = route.Handler
	}
	for _, child := range group.Children {
		collect(paths, order, fullPrefix, child)
	}
}

func dispatch(methods map[string]http.HandlerFunc, logger *slog.Logger) http.Handler {
	allowed := make([]string, 0, len(methods))
	for m := range methods {
		allowed = append(allowed, m)
	}
	if _, ok := methods[http.MethodGet]; ok {
		allowed = append(allowed, http.MethodHead)
	}
	slices.Sort(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}

		if h, ok := methods[method]; ok {
			h(w, r)
			return
		}

		w.Header().Set("Allow", allow)
		handlers.RespondError(w, logger, http.StatusMethodNotAllowed, handlers.ErrMethodNotAllowed)
	})
}
