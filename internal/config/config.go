// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Pipeline PipelineConfig
	Load     LoadConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required when loading)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// PipelineConfig holds normalization run settings.
type PipelineConfig struct {
	// InputDir is the directory holding one cleaned CSV per input table (default: data)
	InputDir string `env:"PIPELINE_INPUT_DIR" default:"data"`

	// PlanFile is an optional YAML plan replacing the built-in one
	PlanFile string `env:"PIPELINE_PLAN_FILE"`

	// FailOnOrphans turns unmatched foreign keys into a run failure (default: false)
	FailOnOrphans bool `env:"PIPELINE_FAIL_ON_ORPHANS" default:"false"`
}

// LoadConfig holds settings for writing the normalized schema to Postgres.
type LoadConfig struct {
	// Enabled controls whether results are loaded into the database (default: false)
	Enabled bool `env:"LOAD_ENABLED" default:"false"`

	// DropExisting drops the schema's tables before creating them (default: true)
	DropExisting bool `env:"LOAD_DROP_EXISTING" default:"true"`

	// UseCopy writes rows with the COPY protocol instead of INSERT (default: true)
	UseCopy bool `env:"LOAD_USE_COPY" default:"true"`

	// BatchSize is the number of rows per INSERT statement (default: 500)
	BatchSize int `env:"LOAD_BATCH_SIZE" default:"500"`

	// Timeout is the maximum duration of the whole load (default: 5m)
	Timeout time.Duration `env:"LOAD_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
