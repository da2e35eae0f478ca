package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/query"
	"github.com/JaimeStill/promptstore/pkg/repository"
)

var nullPayload = json.RawMessage(`null`)

const upsertSQL = `
		INSERT INTO prompt_templates (category, key, label, payload, is_active, sort_order, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (category, key) DO UPDATE SET
			label = EXCLUDED.label,
			payload = EXCLUDED.payload,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order,
			version = EXCLUDED.version
		RETURNING id, (xmax = 0) AS created`

const (
	deactivateByIDSQL  = "UPDATE prompt_templates SET is_active = false WHERE id = $1 AND is_active"
	deactivateByKeySQL = "UPDATE prompt_templates SET is_active = false WHERE category = $1 AND key = $2 AND is_active"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	responder  *handlers.Responder
	categories allowlist.List
	maxBody    int64
}

// Config carries the settings a template System needs beyond its connection.
type Config struct {
	Categories  allowlist.List
	MaxBodySize int64
	Verbose     bool
}

// New creates a template repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, cfg Config) System {
	logger = logger.With("system", "templates")
	return &repo{
		db:         db,
		logger:     logger,
		responder:  handlers.NewResponder(logger, cfg.Verbose),
		categories: cfg.Categories,
		maxBody:    cfg.MaxBodySize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.responder, r.maxBody)
}

// Upsert inserts the template or, when its natural key exists, replaces every
// mutable field in place. The id is returned on both paths.
func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*UpsertResult, error) {
	if err := cmd.Validate(r.categories); err != nil {
		return nil, err
	}

	args := []any{
		cmd.Category,
		cmd.Key,
		cmd.Label,
		string(cmd.Payload),
		cmd.active(),
		cmd.sortOrder(),
		cmd.version(),
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (UpsertResult, error) {
		return repository.QueryOne(ctx, tx, upsertSQL, args, func(s repository.Scanner) (UpsertResult, error) {
			var res UpsertResult
			err := s.Scan(&res.ID, &res.Created)
			return res, err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("upsert template: %w", repository.MapError(err, ErrNotFound, ErrConflict))
	}

	r.logger.Info(
		"template upserted",
		"id", result.ID,
		"category", cmd.Category,
		"key", cmd.Key,
		"created", result.Created,
	)
	return &result, nil
}

func (r *repo) Delete(ctx context.Context, addr Address) (int64, error) {
	if err := addr.Validate(r.categories, false); err != nil {
		return 0, err
	}

	q, args := deactivateByKeySQL, []any{addr.Category, addr.Key}
	if addr.ByID() {
		q, args = deactivateByIDSQL, []any{addr.ID}
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecAffected(ctx, tx, q, args...)
	})
	if err != nil {
		return 0, fmt.Errorf("delete template: %w", err)
	}

	r.logger.Info("template deactivated", "address", addr.String(), "affected", n)
	return n, nil
}

func (r *repo) Find(ctx context.Context, addr Address) (*Template, error) {
	if err := addr.Validate(r.categories, true); err != nil {
		return nil, err
	}

	var (
		q    string
		args []any
	)
	if addr.ByID() {
		q, args = query.NewBuilder(projection).BuildSingle("ID", addr.ID)
	} else {
		q, args = query.NewBuilder(projection).
			WhereEquals("Category", addr.Category).
			WhereEquals("Key", addr.Key).
			BuildSingleOrNull()
	}

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}

	t.Payload = r.decodePayload(t.ID, t.Payload)
	return &t, nil
}

func (r *repo) List(ctx context.Context, category string, includePayload bool) ([]Template, error) {
	category = strings.TrimSpace(category)
	if !r.categories.Contains(category) {
		return nil, fmt.Errorf("%w: allowed %s", ErrInvalidCategory, r.categories)
	}

	proj, scan := summary, scanSummary
	if includePayload {
		proj, scan = projection, scanTemplate
	}

	q, args := query.NewBuilder(proj, listOrder...).
		WhereEquals("Category", category).
		WhereEquals("IsActive", true).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scan)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	if includePayload {
		for i := range items {
			items[i].Payload = r.decodePayload(items[i].ID, items[i].Payload)
		}
	}

	return items, nil
}

// decodePayload returns raw when it holds valid JSON and null otherwise.
func (r *repo) decodePayload(id int64, raw json.RawMessage) json.RawMessage {
	if len(raw) > 0 && json.Valid(raw) {
		return raw
	}
	r.logger.Warn("invalid template payload, substituting null", "id", id)
	return nullPayload
}
