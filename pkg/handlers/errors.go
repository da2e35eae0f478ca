package handlers

import (
	"errors"
	"net/http"
)

// Request decoding errors.
var (
	ErrBodyTooLarge     = errors.New("payload too large")
	ErrEmptyBody        = errors.New("empty body")
	ErrInvalidJSON      = errors.New("invalid JSON input")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrRouteNotFound    = errors.New("route not found")
)

// MapHTTPStatus maps request decoding errors to HTTP status codes.
// Unrecognized errors map to 500.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEmptyBody), errors.Is(err, ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
