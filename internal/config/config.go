// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Feed    FeedConfig
	Catalog CatalogConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// FeedConfig holds settings for the published-sheet CSV feed.
type FeedConfig struct {
	// URL is the CSV export URL of the published sheet (required)
	// Supports both FEED_URL and SHEET_URL env vars for compatibility
	URL string `env:"FEED_URL" envAlt:"SHEET_URL" required:"true"`

	// RefreshInterval is how often the feed is re-fetched (default: 30s)
	RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" default:"30s"`

	// RequestTimeout is the per-fetch HTTP timeout (default: 20s)
	RequestTimeout time.Duration `env:"FEED_REQUEST_TIMEOUT" default:"20s"`
}

// CatalogConfig holds settings for how the catalog is presented.
type CatalogConfig struct {
	// PageSize is the number of rows per result page (default: 20)
	PageSize int `env:"CATALOG_PAGE_SIZE" default:"20"`

	// CascadeFilters controls whether choosing an upstream filter clears
	// downstream selections (default: true)
	CascadeFilters bool `env:"CATALOG_CASCADE_FILTERS" default:"true"`

	// DefinitionFile is an optional YAML file overriding the built-in
	// column definition
	DefinitionFile string `env:"CATALOG_DEFINITION_FILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
