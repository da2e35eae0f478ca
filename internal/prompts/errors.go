package prompts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

// Domain errors for prompt operations.
var (
	ErrNotFound     = errors.New("prompt not found or already deleted")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidType  = errors.New("invalid type")
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrInvalidID    = errors.New("invalid or missing prompt id")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
// Request decoding errors defer to handlers.MapHTTPStatus.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, repository.ErrNulCharacter):
		return http.StatusBadRequest
	}
	return handlers.MapHTTPStatus(err)
}
