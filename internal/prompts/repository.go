package prompts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/promptstore/pkg/allowlist"
	"github.com/JaimeStill/promptstore/pkg/handlers"
	"github.com/JaimeStill/promptstore/pkg/pagination"
	"github.com/JaimeStill/promptstore/pkg/query"
	"github.com/JaimeStill/promptstore/pkg/repository"
	"github.com/JaimeStill/promptstore/pkg/schema"
)

var emptyObject = json.RawMessage(`{}`)

const saveSQL = `
		INSERT INTO prompts (type, title, generated_prompt, prompt_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, type, title, generated_prompt, prompt_data, created_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	responder  *handlers.Responder
	pagination pagination.Config
	types      allowlist.List
	caps       *capabilities
	maxBody    int64
}

// Config carries the settings a prompt System needs beyond its connection.
type Config struct {
	Pagination  pagination.Config
	Types       allowlist.List
	MaxBodySize int64
	Verbose     bool
}

// New creates a prompt repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, cfg Config) System {
	logger = logger.With("system", "prompts")
	return &repo{
		db:         db,
		logger:     logger,
		responder:  handlers.NewResponder(logger, cfg.Verbose),
		pagination: cfg.Pagination,
		types:      cfg.Types,
		caps:       newCapabilities(schema.NewInspector(db), logger),
		maxBody:    cfg.MaxBodySize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.responder, r.pagination, r.types, r.maxBody)
}

func (r *repo) Capabilities(ctx context.Context) (Capabilities, error) {
	return r.caps.Resolve(ctx)
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Prompt, error) {
	if err := cmd.Validate(r.types); err != nil {
		return nil, err
	}

	args := []any{*cmd.Type, *cmd.Title, *cmd.GeneratedPrompt, string(cmd.PromptData)}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, saveSQL, args, scanPrompt)
	})
	if err != nil {
		return nil, fmt.Errorf("save prompt: %w", err)
	}

	p.PromptData = r.decodePayload(p.ID, p.PromptData)

	r.logger.Info("prompt saved", "id", p.ID, "type", p.Type)
	return &p, nil
}

// Delete removes a prompt by id. When the table supports soft delete the row
// is marked instead, and an already marked row counts as not found.
func (r *repo) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	caps, err := r.caps.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	q := "DELETE FROM prompts WHERE id = $1"
	if caps.SoftDelete {
		q = "UPDATE prompts SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL"
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	r.logger.Info("prompt deleted", "id", id, "soft", caps.SoftDelete)
	return nil
}

// Clear removes every prompt, or marks every unmarked prompt under soft delete,
// and returns the number of rows affected.
func (r *repo) Clear(ctx context.Context) (int64, error) {
	caps, err := r.caps.Resolve(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear prompts: %w", err)
	}

	q := "DELETE FROM prompts"
	if caps.SoftDelete {
		q = "UPDATE prompts SET deleted_at = now() WHERE deleted_at IS NULL"
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecAffected(ctx, tx, q)
	})
	if err != nil {
		return 0, fmt.Errorf("clear prompts: %w", err)
	}

	r.logger.Info("prompts cleared", "deleted", n, "soft", caps.SoftDelete)
	return n, nil
}

func (r *repo) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	caps, err := r.caps.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("search prompts: %w", err)
	}

	qb := filters.Apply(query.NewBuilder(projection), caps)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	if total == 0 {
		result := pagination.NewPageResult([]Prompt{}, 0, page.Page, page.PageSize)
		return &result, nil
	}

	page.Clamp(total)

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	prompts, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	for i := range prompts {
		prompts[i].PromptData = r.decodePayload(prompts[i].ID, prompts[i].PromptData)
	}

	result := pagination.NewPageResult(prompts, total, page.Page, page.PageSize)
	return &result, nil
}

// decodePayload returns raw when it holds valid JSON and an empty object otherwise.
func (r *repo) decodePayload(id int64, raw json.RawMessage) json.RawMessage {
	if len(raw) > 0 && json.Valid(raw) {
		return raw
	}
	r.logger.Warn("invalid prompt_data, substituting empty object", "id", id)
	return emptyObject
}
