package templates

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/routes"
)

// Handler provides HTTP endpoints for template operations.
// Every endpoint disables caching since clients poll template lists.
type Handler struct {
	sys     System
	respond *handlers.Responder
	maxBody int64
}

type upsertResponse struct {
	handlers.Envelope
	UpsertResult
}

type deleteResponse struct {
	handlers.Envelope
	Affected int64 `json:"affected"`
}

type getResponse struct {
	handlers.Envelope
	Template *Template `json:"template"`
}

type listResponse struct {
	handlers.Envelope
	Templates []Template `json:"templates"`
}

type deleteRequest struct {
	ID       json.RawMessage `json:"id"`
	Category string          `json:"category"`
	Key      string          `json:"key"`
}

// NewHandler creates a Handler with the given system, responder, and limits.
func NewHandler(sys System, respond *handlers.Responder, maxBody int64) *Handler {
	return &Handler{
		sys:     sys,
		respond: respond,
		maxBody: maxBody,
	}
}

// Routes returns the route group definition for template endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/templates",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/upsert", Handler: middleware.NoCache(h.Upsert)},
			{Method: http.MethodPost, Pattern: "/delete", Handler: middleware.NoCache(h.Delete)},
			{Method: http.MethodGet, Pattern: "/get", Handler: middleware.NoCache(h.Get)},
			{Method: http.MethodGet, Pattern: "/list", Handler: middleware.NoCache(h.List)},
		},
	}
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var cmd UpsertCommand
	if err := handlers.Decode(w, r, h.maxBody, &cmd); err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.Upsert(r.Context(), cmd)
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, upsertResponse{
		Envelope:     handlers.Success("Template upserted"),
		UpsertResult: *result,
	})
}

// Delete deactivates a template. An id that is not a positive integer is
// treated as absent so the natural key can address the template instead.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := handlers.Decode(w, r, h.maxBody, &req); err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	addr := Address{Category: req.Category, Key: req.Key}
	if id, ok := handlers.ParseID(req.ID); ok {
		addr.ID = id
	}

	n, err := h.sys.Delete(r.Context(), addr)
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, deleteResponse{
		Envelope: handlers.Success("Template deleted (soft)"),
		Affected: n,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	addr := Address{Category: values.Get("category"), Key: values.Get("key")}
	if id, ok := handlers.ParseQueryID(values.Get("id")); ok {
		addr.ID = id
	}

	t, err := h.sys.Find(r.Context(), addr)
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, getResponse{
		Envelope: handlers.Success(""),
		Template: t,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	include, _ := strconv.ParseBool(strings.TrimSpace(values.Get("include_payload")))

	items, err := h.sys.List(r.Context(), values.Get("category"), include)
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, listResponse{
		Envelope:  handlers.Success(""),
		Templates: items,
	})
}
