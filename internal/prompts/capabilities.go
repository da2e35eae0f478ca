package prompts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/promptstore/pkg/schema"
)

// resolveTimeout bounds one catalog resolution independently of any request.
const resolveTimeout = 10 * time.Second

// Capabilities describes optional features of the deployed prompts table.
type Capabilities struct {
	// SoftDelete is true when the table has a deleted_at column.
	SoftDelete bool `json:"soft_delete"`
	// FullText is true when a to_tsvector expression index covers the prompt text.
	FullText bool `json:"full_text"`
}

// capabilities resolves the table's Capabilities on first use and caches them.
// Concurrent first callers share one resolution. A failed resolution is not
// cached, so the next call retries.
type capabilities struct {
	inspector *schema.Inspector
	logger    *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache *Capabilities
}

func newCapabilities(inspector *schema.Inspector, logger *slog.Logger) *capabilities {
	return &capabilities{
		inspector: inspector,
		logger:    logger,
	}
}

func (c *capabilities) cached() (Capabilities, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cache == nil {
		return Capabilities{}, false
	}
	return *c.cache, true
}

// Resolve returns the cached capabilities, querying the catalog if needed.
// The catalog query runs detached from ctx under its own timeout. A caller
// that gives up only abandons its own wait; callers sharing the same
// resolution still receive its result.
func (c *capabilities) Resolve(ctx context.Context) (Capabilities, error) {
	if caps, ok := c.cached(); ok {
		return caps, nil
	}

	ch := c.group.DoChan("capabilities", func() (any, error) {
		if caps, ok := c.cached(); ok {
			return caps, nil
		}

		resolveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()

		caps, err := c.inspect(resolveCtx)
		if err != nil {
			return Capabilities{}, err
		}

		c.mu.Lock()
		c.cache = &caps
		c.mu.Unlock()

		c.logger.Info(
			"prompt table capabilities resolved",
			"soft_delete", caps.SoftDelete,
			"full_text", caps.FullText,
		)
		return caps, nil
	})

	select {
	case <-ctx.Done():
		return Capabilities{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Capabilities{}, res.Err
		}
		return res.Val.(Capabilities), nil
	}
}

func (c *capabilities) inspect(ctx context.Context) (Capabilities, error) {
	var caps Capabilities
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ok, err := c.inspector.HasColumn(gctx, tableSchema, tableName, softDeleteColumn)
		caps.SoftDelete = ok
		return err
	})

	g.Go(func() error {
		ok, err := c.inspector.HasTextSearchIndex(gctx, tableSchema, tableName, textSearchColumn)
		caps.FullText = ok
		return err
	})

	if err := g.Wait(); err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}
