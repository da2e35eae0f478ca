package templates_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptstore/internal/templates"
	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/routes"
)

type mockSystem struct {
	upsertFn func(ctx context.Context, cmd templates.UpsertCommand) (*templates.UpsertResult, error)
	deleteFn func(ctx context.Context, addr templates.Address) (int64, error)
	findFn   func(ctx context.Context, addr templates.Address) (*templates.Template, error)
	listFn   func(ctx context.Context, category string, includePayload bool) ([]templates.Template, error)
}

func (m *mockSystem) Handler() *templates.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return templates.NewHandler(m, handlers.NewResponder(logger, false), 1024)
}

func (m *mockSystem) Upsert(ctx context.Context, cmd templates.UpsertCommand) (*templates.UpsertResult, error) {
	return m.upsertFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, addr templates.Address) (int64, error) {
	return m.deleteFn(ctx, addr)
}

func (m *mockSystem) Find(ctx context.Context, addr templates.Address) (*templates.Template, error) {
	return m.findFn(ctx, addr)
}

func (m *mockSystem) List(ctx context.Context, category string, includePayload bool) ([]templates.Template, error) {
	return m.listFn(ctx, category, includePayload)
}

func newMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, slog.New(slog.NewTextHandler(io.Discard, nil)), sys.Handler().Routes())
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandlerUpsert(t *testing.T) {
	var got templates.UpsertCommand
	sys := &mockSystem{
		upsertFn: func(_ context.Context, cmd templates.UpsertCommand) (*templates.UpsertResult, error) {
			got = cmd
			if err := cmd.Validate(testCategories); err != nil {
				return nil, err
			}
			return &templates.UpsertResult{ID: 12, Created: false}, nil
		},
	}
	mux := newMux(sys)

	rec := do(mux, http.MethodPost, "/templates/upsert",
		`{"category":"agent","key":"k","label":"L","payload":{"a":1},"is_active":0,"sort_order":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.JSONEq(t, `{"ok":true,"message":"Template upserted","id":12,"created":false}`, rec.Body.String())
	require.NotNil(t, got.IsActive)
	assert.False(t, bool(*got.IsActive))
	require.NotNil(t, got.SortOrder)
	assert.Equal(t, 3, *got.SortOrder)
	assert.Nil(t, got.Version)

	t.Run("validation failure", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/templates/upsert", `{"category":"agent","key":"k","label":"L","payload":"flat"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"payload must be a JSON object or array"}`, rec.Body.String())
	})

	t.Run("invalid flag", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/templates/upsert", `{"category":"agent","is_active":"maybe"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/templates/upsert", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "POST", rec.Header().Get("Allow"))
	})
}

func TestHandlerDelete(t *testing.T) {
	var got templates.Address
	sys := &mockSystem{
		deleteFn: func(_ context.Context, addr templates.Address) (int64, error) {
			got = addr
			if err := addr.Validate(testCategories, false); err != nil {
				return 0, err
			}
			return 1, nil
		},
	}
	mux := newMux(sys)

	tests := []struct {
		name   string
		body   string
		status int
		want   templates.Address
	}{
		{"by id", `{"id":4}`, http.StatusOK, templates.Address{ID: 4}},
		{"by string id", `{"id":"4"}`, http.StatusOK, templates.Address{ID: 4}},
		{"by natural key", `{"category":"tcrei","key":"role"}`, http.StatusOK, templates.Address{Category: "tcrei", Key: "role"}},
		{"zero id falls back to key", `{"id":0,"category":"tcrei","key":"role"}`, http.StatusOK, templates.Address{Category: "tcrei", Key: "role"}},
		{"no address", `{"key":"role"}`, http.StatusBadRequest, templates.Address{Key: "role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, http.MethodPost, "/templates/delete", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, got)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"ok":true,"message":"Template deleted (soft)","affected":1}`, rec.Body.String())
			}
		})
	}
}

func TestHandlerGet(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, addr templates.Address) (*templates.Template, error) {
			if err := addr.Validate(testCategories, true); err != nil {
				return nil, err
			}
			if addr.ID == 404 {
				return nil, templates.ErrNotFound
			}
			return &templates.Template{ID: 1, Key: "k", Category: "agent", Payload: json.RawMessage(`{"a":1}`)}, nil
		},
	}
	mux := newMux(sys)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"by id", "/templates/get?id=1", http.StatusOK},
		{"by natural key", "/templates/get?category=agent&key=k", http.StatusOK},
		{"not found", "/templates/get?id=404", http.StatusNotFound},
		{"invalid category", "/templates/get?category=poem&key=k", http.StatusBadRequest},
		{"no address", "/templates/get", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
		})
	}

	rec := do(mux, http.MethodGet, "/templates/get?id=1", "")
	var body struct {
		OK       bool               `json:"ok"`
		Template templates.Template `json:"template"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.JSONEq(t, `{"a":1}`, string(body.Template.Payload))
}

func TestHandlerList(t *testing.T) {
	var (
		gotCategory string
		gotInclude  bool
	)
	sys := &mockSystem{
		listFn: func(_ context.Context, category string, include bool) ([]templates.Template, error) {
			gotCategory, gotInclude = category, include
			if category != "design" {
				return nil, templates.ErrInvalidCategory
			}
			return []templates.Template{{ID: 1, Key: "a", Label: "A", Category: "design", IsActive: true}}, nil
		},
	}
	mux := newMux(sys)

	rec := do(mux, http.MethodGet, "/templates/list?category=design&include_payload=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "design", gotCategory)
	assert.True(t, gotInclude)
	assert.JSONEq(t,
		`{"ok":true,"templates":[{"id":1,"key":"a","label":"A","category":"design","is_active":true,"sort_order":0,"version":0}]}`,
		rec.Body.String())

	rec = do(mux, http.MethodGet, "/templates/list?category=poem", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, gotInclude)
}
