// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and a pattern, relative to its group prefix, to a handler.
// Patterns use net/http ServeMux syntax without the method prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
