package infrastructure_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
	"github.com/JaimeStill/promptstore/pkg/database"
)

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "promptstore",
			User:            "promptstore",
			Password:        "promptstore",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Metrics == nil {
		t.Fatal("Metrics is nil")
	}

	families, err := infra.Metrics.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("expected runtime collectors to be registered")
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "go_sql_max_open_connections" {
			found = true
		}
	}
	if !found {
		t.Error("expected pool statistics to be registered")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewLoggerLevel(t *testing.T) {
	ctx := context.Background()

	if infrastructure.NewLogger(false).Enabled(ctx, slog.LevelDebug) {
		t.Error("debug enabled without debug flag")
	}
	if !infrastructure.NewLogger(true).Enabled(ctx, slog.LevelDebug) {
		t.Error("debug disabled with debug flag")
	}
}
