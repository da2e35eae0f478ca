package api_test

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptstore/internal/api"
	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/lifecycle"
	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/module"
	"github.com/JaimeStill/promptstore/pkg/pagination"
)

type stubDatabase struct {
	db *sql.DB
}

func (s *stubDatabase) Connection() *sql.DB { return s.db }

func (s *stubDatabase) Start(*lifecycle.Coordinator) error { return nil }

func validConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BasePath:       "/api",
			MaxBodySize:    "1MB",
			RequestTimeout: "5s",
			CORS: middleware.CORSConfig{
				Enabled:        true,
				Origins:        []string{"http://localhost:5173"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
			},
			Pagination: pagination.Config{
				DefaultPageSize: 10,
				MaxPageSize:     50,
			},
		},
		Catalog: config.CatalogConfig{
			PromptTypes:        allowlist.List{"tcrei", "design", "agent"},
			TemplateCategories: allowlist.List{"agent", "tcrei", "design"},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) (*infrastructure.Infrastructure, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Database:  &stubDatabase{db: db},
		Metrics:   prometheus.NewRegistry(),
	}, mock
}

func setupRouter(t *testing.T) (*module.Router, *infrastructure.Infrastructure) {
	t.Helper()
	infra, _ := setupInfra(t)

	m, err := api.NewModule(validConfig(), infra)
	require.NoError(t, err)

	// Capability warm-up fails against the empty mock and must not block readiness.
	require.NoError(t, infra.Lifecycle.WaitForStartup())

	router := module.NewRouter(infra.Logger)
	router.Mount(m)
	return router, infra
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewModule(t *testing.T) {
	infra, _ := setupInfra(t)

	m, err := api.NewModule(validConfig(), infra)
	require.NoError(t, err)
	assert.Equal(t, "/api", m.Prefix())
}

func TestNewRuntime(t *testing.T) {
	infra, _ := setupInfra(t)

	runtime := api.NewRuntime(validConfig(), infra)

	assert.Equal(t, 10, runtime.Pagination.DefaultPageSize)
	assert.Equal(t, int64(1<<20), runtime.MaxBodySize)
	assert.Equal(t, allowlist.List{"tcrei", "design", "agent"}, runtime.Catalog.PromptTypes)
	assert.False(t, runtime.Verbose)
	assert.NotNil(t, runtime.Logger)
	assert.NotNil(t, runtime.Database)
	assert.NotNil(t, runtime.Lifecycle)
	assert.Same(t, infra.Metrics, runtime.Metrics)
}

func TestNewDomain(t *testing.T) {
	infra, _ := setupInfra(t)

	domain := api.NewDomain(api.NewRuntime(validConfig(), infra))
	require.NotNil(t, domain)
	assert.NotNil(t, domain.Prompts)
	assert.NotNil(t, domain.Templates)
}

func TestModuleRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("agent text", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/prompts/agent", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Contains(t, rec.Body.String(), `"ok":true`)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prompts/agent", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")

		rec := serve(router, req)
		assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/prompts/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"route not found"}`, rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/prompts/search", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/prompts/save", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")

		rec := serve(router, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("oversized save", func(t *testing.T) {
		body := `{"title":"` + strings.Repeat("x", 2<<20) + `"}`
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/prompts/save", strings.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestNulCharactersRejectedAsBadRequest(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name, path, body, field string
	}{
		{
			name:  "prompt data",
			path:  "/api/prompts/save",
			body:  `{"type":"design","title":"t","generated_prompt":"g","prompt_data":{"a":"\u0000"}}`,
			field: "prompt_data",
		},
		{
			name:  "prompt body",
			path:  "/api/prompts/save",
			body:  `{"type":"design","title":"t","generated_prompt":"g\u0000","prompt_data":{}}`,
			field: "generated_prompt",
		},
		{
			name:  "template payload",
			path:  "/api/templates/upsert",
			body:  `{"category":"agent","key":"k","label":"l","payload":{"\u0000":1}}`,
			field: "payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.field+" contains a NUL")
		})
	}
}

func TestModuleRecordsMetrics(t *testing.T) {
	router, infra := setupRouter(t)

	serve(router, httptest.NewRequest(http.MethodGet, "/api/prompts/agent", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	out := rec.Body.String()
	assert.Contains(t, out, `promptstore_http_requests_total{method="GET",route="/prompts/agent",status="200"} 1`)
	assert.Contains(t, out, `promptstore_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestSearchThroughModule(t *testing.T) {
	infra, mock := setupInfra(t)
	mock.MatchExpectationsInOrder(false)

	m, err := api.NewModule(validConfig(), infra)
	require.NoError(t, err)
	require.NoError(t, infra.Lifecycle.WaitForStartup())

	mock.ExpectQuery(`information_schema\.columns`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`pg_indexes`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM public\.prompts p WHERE p\.type = \$1`).
		WithArgs("design").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := module.NewRouter(infra.Logger)
	router.Mount(m)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/prompts/search?type=design&limit=1000&page=0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"ok":true,"total_prompts":0,"per_page":10,"current_page":1,"total_pages":0,"prompts":[]}`,
		rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
