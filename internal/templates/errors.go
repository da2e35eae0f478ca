package templates

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// Domain errors for template operations.
var (
	ErrNotFound        = errors.New("template not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidPayload  = errors.New("payload must be a JSON object or array")
	ErrMissingAddress  = errors.New("provide id or category and key")
	ErrConflict        = errors.New("template conflicts with an existing template")
)

// MapHTTPStatus maps template domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrMissingAddress),
		errors.Is(err, repository.ErrNulCharacter):
		return http.StatusBadRequest
	}
	return handlers.MapHTTPStatus(err)
}
