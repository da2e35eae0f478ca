package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "PROMPTSTORE_SERVER_HOST"
	EnvServerPort            = "PROMPTSTORE_SERVER_PORT"
	EnvServerReadTimeout     = "PROMPTSTORE_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "PROMPTSTORE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "PROMPTSTORE_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout = "PROMPTSTORE_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds the HTTP listener settings. Timeouts are Go duration strings.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// timeout ties a duration field to its config key, environment variable and default.
type timeout struct {
	key, env, fallback string
	value              *string
}

func (c *ServerConfig) timeouts() []timeout {
	return []timeout{
		{"read_timeout", EnvServerReadTimeout, "15s", &c.ReadTimeout},
		{"write_timeout", EnvServerWriteTimeout, "30s", &c.WriteTimeout},
		{"idle_timeout", EnvServerIdleTimeout, "60s", &c.IdleTimeout},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout},
	}
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration     { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

// Finalize fills defaults, applies environment overrides and validates.
func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if port, err := strconv.Atoi(os.Getenv(EnvServerPort)); err == nil {
		c.Port = port
	}

	for _, t := range c.timeouts() {
		if *t.value == "" {
			*t.value = t.fallback
		}
		if v := os.Getenv(t.env); v != "" {
			*t.value = v
		}
	}

	return c.validate()
}

// Merge overwrites fields that are set in overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	theirs := overlay.timeouts()
	for i, t := range c.timeouts() {
		if v := *theirs[i].value; v != "" {
			*t.value = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, t := range c.timeouts() {
		if _, err := time.ParseDuration(*t.value); err != nil {
			return fmt.Errorf("invalid %s: %w", t.key, err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
