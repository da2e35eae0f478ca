package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/promptstore/pkg/formatting"
	"github.com/JaimeStill/promptstore/pkg/middleware"
	"github.com/JaimeStill/promptstore/pkg/pagination"
)

const (
	EnvAPIBasePath       = "PROMPTSTORE_API_BASE_PATH"
	EnvAPIMaxBodySize    = "PROMPTSTORE_API_MAX_BODY_SIZE"
	EnvAPIRequestTimeout = "PROMPTSTORE_API_REQUEST_TIMEOUT"

	defaultMaxBodySize = 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROMPTSTORE_CORS_ENABLED",
	Origins:          "PROMPTSTORE_CORS_ORIGINS",
	AllowedMethods:   "PROMPTSTORE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROMPTSTORE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PROMPTSTORE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROMPTSTORE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PROMPTSTORE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PROMPTSTORE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxBodySize    string                `toml:"max_body_size"`
	RequestTimeout string                `toml:"request_timeout"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes, falling back to 1MB.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil || size <= 0 {
		return defaultMaxBodySize
	}
	return size
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *APIConfig) RequestTimeoutDuration() time.Duration {
	return duration(c.RequestTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "10s"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv(EnvAPIRequestTimeout); v != "" {
		c.RequestTimeout = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
