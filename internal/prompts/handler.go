package prompts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/pagination"
	"github.com/JaimeStill/promptstore/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	respond    *handlers.Responder
	pagination pagination.Config
	types      allowlist.List
	maxBody    int64
}

// SavedResponse is returned by the save endpoints.
type SavedResponse struct {
	handlers.Envelope
	Prompt *Prompt `json:"prompt"`
}

// DeletedResponse confirms a single deletion.
type DeletedResponse struct {
	handlers.Envelope
	ID int64 `json:"id"`
}

// ClearedResponse reports how many prompts a clear removed.
type ClearedResponse struct {
	handlers.Envelope
	Deleted int64 `json:"deleted"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	handlers.Envelope
	TotalPrompts int      `json:"total_prompts"`
	PerPage      int      `json:"per_page"`
	CurrentPage  int      `json:"current_page"`
	TotalPages   int      `json:"total_pages"`
	Prompts      []Prompt `json:"prompts"`
}

// AgentTextResponse carries the agent prompt text.
type AgentTextResponse struct {
	handlers.Envelope
	Prompt string `json:"prompt"`
}

type deleteRequest struct {
	ID json.RawMessage `json:"id"`
}

// NewHandler creates a Handler with the given system, responder, and limits.
func NewHandler(
	sys System,
	respond *handlers.Responder,
	pagination pagination.Config,
	types allowlist.List,
	maxBody int64,
) *Handler {
	return &Handler{
		sys:        sys,
		respond:    respond,
		pagination: pagination,
		types:      types,
		maxBody:    maxBody,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/save", Handler: middleware.NoCache(h.Save)},
			{Method: http.MethodPost, Pattern: "/delete", Handler: middleware.NoCache(h.Delete)},
			{Method: http.MethodPost, Pattern: "/clear", Handler: middleware.NoCache(h.Clear)},
			{Method: http.MethodGet, Pattern: "/search", Handler: h.Search},
			{Method: http.MethodGet, Pattern: "/agent", Handler: h.AgentText},
			{Method: http.MethodPost, Pattern: "/agent", Handler: middleware.NoCache(h.SaveAgent)},
		},
	}
}

// Save stores a prompt from a JSON body.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := handlers.Decode(w, r, h.maxBody, &cmd); err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.save(w, r, cmd)
}

// Delete removes a prompt identified by the id in the JSON body.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := handlers.Decode(w, r, h.maxBody, &req); err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	id, ok := handlers.ParseID(req.ID)
	if !ok {
		h.respond.Error(w, http.StatusBadRequest, ErrInvalidID)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, DeletedResponse{
		Envelope: handlers.Success("Prompt deleted successfully!"),
		ID:       id,
	})
}

// Clear removes every prompt.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.sys.Clear(r.Context())
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, ClearedResponse{
		Envelope: handlers.Success("All prompts cleared successfully!"),
		Deleted:  n,
	})
}

// Search returns one page of prompts matching the query parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query(), h.types)

	result, err := h.sys.Search(r.Context(), page, filters)
	if err != nil {
		h.respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.respond.JSON(w, http.StatusOK, SearchResponse{
		Envelope:     handlers.Success(""),
		TotalPrompts: result.Total,
		PerPage:      result.PageSize,
		CurrentPage:  result.Page,
		TotalPages:   result.TotalPages,
		Prompts:      result.Data,
	})
}

// AgentText returns the agent prompt text without saving it.
func (h *Handler) AgentText(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, AgentTextResponse{
		Envelope: handlers.Success(""),
		Prompt:   AgentPromptText(),
	})
}

// SaveAgent stores the agent prompt. An optional JSON body overrides the defaults.
func (h *Handler) SaveAgent(w http.ResponseWriter, r *http.Request) {
	var overrides SaveCommand
	if err := handlers.Decode(w, r, h.maxBody, &overrides); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.save(w, r, AgentPrompt(overrides))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, cmd SaveCommand) {
	prompt, err := h.sys.Save(r.Context(), cmd)
	if err != nil {
		h.respond.Error(w, MapHTTPStatus(err), err)
		return
	}

	h.respond.JSON(w, http.StatusOK, SavedResponse{
		Envelope: handlers.Success("Prompt saved successfully!"),
		Prompt:   prompt,
	})
}
