package middleware

import "net/http"

// Middleware wraps a handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The zero value is ready to use.
type Stack struct {
	layers []Middleware
}

// Use appends middleware to the stack. Earlier layers wrap later ones.
func (s *Stack) Use(mw ...Middleware) {
	s.layers = append(s.layers, mw...)
}

// Len reports how many layers the stack holds.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Apply wraps h so that the first layer added sees the request first.
func (s *Stack) Apply(h http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		h = s.layers[i](h)
	}
	return h
}
