// Package config provides centralized configuration for the importer.
// Settings load from environment variables with defaults and are
// validated on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Ingest  IngestConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP shell settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 0 = disabled)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m,
	// large files take a while to normalize and load)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// StoreConfig holds SQLite settings.
type StoreConfig struct {
	// Path is the database file (default: data.db)
	// Supports both DATABASE_PATH and DB_PATH env vars for compatibility
	Path string `env:"DATABASE_PATH" envAlt:"DB_PATH" default:"data.db"`
}

// IngestConfig holds pipeline settings.
type IngestConfig struct {
	// Timezone is the target zone for normalized timestamps (default: UTC)
	Timezone string `env:"TIMEZONE" default:"UTC"`

	// BatchSize is the number of rows written per transaction (default: 1000)
	BatchSize int `env:"BATCH_SIZE" default:"1000"`

	// MatchThreshold is the minimum header overlap ratio for schema
	// identification (default: 0.8)
	MatchThreshold float64 `env:"MATCH_THRESHOLD" default:"0.8"`

	// Strict drops rows containing defaulted cells instead of keeping
	// them (default: false)
	Strict bool `env:"INGEST_STRICT" default:"false"`

	// StripNonASCII removes non-ASCII runes from cells during cleaning.
	// Lossy for non-English content; off by default.
	StripNonASCII bool `env:"INGEST_STRIP_NON_ASCII" default:"false"`

	// MaxFileSize is the maximum input file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"104857600"`
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
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
