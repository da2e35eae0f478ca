package prompts

import (
	"context"

	"github.com/JaimeStill/promptstore/pkg/pagination"
)

// System defines the public contract for prompt domain operations.
type System interface {
	Handler() *Handler

	Save(ctx context.Context, cmd SaveCommand) (*Prompt, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) (int64, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	// Capabilities resolves optional table features, caching the first success.
	Capabilities(ctx context.Context) (Capabilities, error)
}
