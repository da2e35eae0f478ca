// Package config loads service configuration from an optional .env file,
// optional TOML files, and PROMPTSTORE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/promptstore/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DefaultDotenvFile    = ".env"

	EnvPromptstoreEnv             = "PROMPTSTORE_ENV"
	EnvPromptstoreDotenv          = "PROMPTSTORE_DOTENV"
	EnvPromptstoreShutdownTimeout = "PROMPTSTORE_SHUTDOWN_TIMEOUT"
	EnvPromptstoreVersion         = "PROMPTSTORE_VERSION"
	EnvPromptstoreDebug           = "PROMPTSTORE_DEBUG"
)

var databaseEnv = &database.Env{
	URL:             "PROMPTSTORE_DATABASE_URL",
	Host:            "PROMPTSTORE_DB_HOST",
	Port:            "PROMPTSTORE_DB_PORT",
	Name:            "PROMPTSTORE_DB_NAME",
	User:            "PROMPTSTORE_DB_USER",
	Password:        "PROMPTSTORE_DB_PASSWORD",
	SSLMode:         "PROMPTSTORE_DB_SSL_MODE",
	MaxOpenConns:    "PROMPTSTORE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROMPTSTORE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROMPTSTORE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROMPTSTORE_DB_CONN_TIMEOUT",
	ApplicationName: "PROMPTSTORE_DB_APPLICATION_NAME",
}

// Config is the root configuration for the promptstore service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	Catalog         CatalogConfig   `toml:"catalog"`
	Debug           bool            `toml:"debug"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the PROMPTSTORE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPromptstoreEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load applies the .env file (if present) to the process environment, reads
// the base config (if present), applies any environment overlay, and finalizes
// all values. If no config.toml exists, defaults and environment variables
// provide all configuration. The returned Diagnostics describe what was read.
func Load() (*Config, *Diagnostics, error) {
	diag := &Diagnostics{}

	if err := loadDotenv(dotenvPath(), diag); err != nil {
		return nil, diag, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, diag, err
		}
		cfg = loaded
		diag.Files = append(diag.Files, BaseConfigFile)
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, diag, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
		diag.Files = append(diag.Files, path)
	}

	if err := cfg.finalize(); err != nil {
		return nil, diag, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, diag, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
// Debug can only be switched on by an overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Debug {
		c.Debug = true
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Catalog.Merge(&overlay.Catalog)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Catalog.Finalize(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPromptstoreShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPromptstoreVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvPromptstoreDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvPromptstoreEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func dotenvPath() string {
	if v := os.Getenv(EnvPromptstoreDotenv); v != "" {
		return v
	}
	return DefaultDotenvFile
}
