package templates

import "context"

// System defines the public contract for template domain operations.
type System interface {
	Handler() *Handler

	Upsert(ctx context.Context, cmd UpsertCommand) (*UpsertResult, error)
	// Delete deactivates the addressed template and returns the rows affected.
	// Zero means no active template matched.
	Delete(ctx context.Context, addr Address) (int64, error)
	Find(ctx context.Context, addr Address) (*Template, error)
	List(ctx context.Context, category string, includePayload bool) ([]Template, error)
}
