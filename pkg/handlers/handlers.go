// Package handlers provides the JSON response envelope and request decoding
// shared by every HTTP endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Envelope is embedded by success payloads so every response carries "ok".
type Envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Success returns an Envelope with OK set and an optional message.
func Success(message string) Envelope {
	return Envelope{OK: true, Message: message}
}

// ErrorBody is the failure shape: {"ok": false, "error": "..."}.
type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as an ErrorBody.
// Server errors are reduced to a generic message; use a Responder with
// verbose set to echo them.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	NewResponder(logger, false).Error(w, status, err)
}

// Responder writes envelopes and decides how much of a server error reaches the client.
type Responder struct {
	logger  *slog.Logger
	verbose bool
}

// NewResponder creates a Responder. When verbose is true, 5xx responses include
// the underlying error text.
func NewResponder(logger *slog.Logger, verbose bool) *Responder {
	return &Responder{logger: logger, verbose: verbose}
}

// JSON writes data with the given status.
func (r *Responder) JSON(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, data)
}

// Error writes err as an ErrorBody. Client errors keep their message;
// server errors are logged in full and reported generically unless verbose.
func (r *Responder) Error(w http.ResponseWriter, status int, err error) {
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", "status", status, "error", err)
		if !r.verbose {
			msg = http.StatusText(status)
		}
	} else {
		r.logger.Debug("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, ErrorBody{OK: false, Error: msg})
}

// Decode reads a JSON body of at most maxBytes into v.
// Oversized bodies return ErrBodyTooLarge; empty bodies return ErrEmptyBody;
// anything that is not a single JSON value of v's shape returns ErrInvalidJSON.
func Decode(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	if r.ContentLength > maxBytes {
		return ErrBodyTooLarge
	}

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		default:
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return ErrInvalidJSON
	}

	return nil
}

// ParseID reads a positive integer identifier sent as a JSON number or a
// numeric string. It reports false for anything else, including absent values.
func ParseID(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseQueryID is ParseID for a query parameter value.
func ParseQueryID(v string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
