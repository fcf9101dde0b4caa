// Package config loads server configuration from flags, environment
// variables, and an optional YAML file.
package config

import (
	"time"

	"collection-graphql/internal/naming"
)

// Config holds the application configuration.
type Config struct {
	Model         ModelConfig         `mapstructure:"model"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Naming        naming.Config       `mapstructure:"naming"`
}

// ModelConfig points at the schema model and optional seed data.
type ModelConfig struct {
	// File is the YAML file declaring record schemas, collections, and
	// connections.
	File string `mapstructure:"file"`
	// DataFile optionally seeds the in-memory accessor. Ignored when a
	// database DSN is configured.
	DataFile string `mapstructure:"data_file"`
}

// PoolConfig holds connection pool parameters.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DatabaseConfig holds database connection parameters. When DSN is empty
// the server runs against the in-memory accessor instead.
type DatabaseConfig struct {
	// DSN is a complete go-sql-driver/mysql Data Source Name.
	// Format: user:password@tcp(host:port)/database?params
	DSN string `mapstructure:"dsn"`

	Pool PoolConfig `mapstructure:"pool"`

	// ConnectionTimeout is the max time to wait for the database on
	// startup.
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	GraphiQLEnabled bool `mapstructure:"graphiql_enabled"`
	Pretty          bool `mapstructure:"pretty"`

	CORSEnabled        bool     `mapstructure:"cors_enabled"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods []string `mapstructure:"cors_allowed_methods"`
	CORSAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	CORSMaxAge         int      `mapstructure:"cors_max_age"`
}

// LoggingConfig holds logging parameters.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds metrics, tracing, and logging parameters.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`

	MetricsEnabled   bool    `mapstructure:"metrics_enabled"`
	TracingEnabled   bool    `mapstructure:"tracing_enabled"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio"`

	Logging LoggingConfig `mapstructure:"logging"`
}
