// Package database opens the PostgreSQL pool through the pgx stdlib driver and
// ties its readiness and shutdown to the service lifecycle.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/promptstore/pkg/lifecycle"
)

const pingInterval = 500 * time.Millisecond

// ErrNotReady indicates the database did not answer before the connection timeout.
var ErrNotReady = errors.New("database not ready")

// System is the database as seen by the rest of the service.
type System interface {
	// Connection returns the shared pool.
	Connection() *sql.DB
	// Start registers the readiness check and the close hook with lc.
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db      *sql.DB
	logger  *slog.Logger
	timeout time.Duration
}

// New opens the pool and applies the pool limits from cfg. No connection is
// made until Start runs its readiness check.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		logger:  logger.With("system", "database"),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting database connection", "timeout", p.timeout)

	lc.OnStartup(func() error {
		ctx, cancel := context.WithTimeout(lc.Context(), p.timeout)
		defer cancel()
		return p.await(ctx)
	})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.close()
	})

	return nil
}

// await pings until the server answers or ctx expires, so the service can
// start alongside a database container that is still booting.
func (p *pool) await(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := p.db.PingContext(ctx)
		if err == nil {
			p.logger.Info("database connection established", "attempts", attempt)
			return nil
		}

		select {
		case <-ctx.Done():
			p.logger.Error("database ping failed", "attempts", attempt, "error", err)
			return fmt.Errorf("%w: %w", ErrNotReady, err)
		case <-ticker.C:
			p.logger.Debug("database not reachable yet", "attempt", attempt, "error", err)
		}
	}
}

func (p *pool) close() {
	stats := p.db.Stats()
	p.logger.Info("closing database connection", "open", stats.OpenConnections, "in_use", stats.InUse)

	if err := p.db.Close(); err != nil {
		p.logger.Error("database close failed", "error", err)
		return
	}
	p.logger.Info("database connection closed")
}
