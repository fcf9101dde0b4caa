package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks configuration values after loading.
func (c *Config) Validate() error {
	if c.Model.File == "" {
		return fmt.Errorf("%w: model.file is required", ErrInvalidConfig)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Database.DSN != "" && c.Model.DataFile != "" {
		return fmt.Errorf("%w: model.data_file and database.dsn are mutually exclusive", ErrInvalidConfig)
	}

	if c.Database.Pool.MaxOpen < 0 || c.Database.Pool.MaxIdle < 0 {
		return fmt.Errorf("%w: database pool sizes must not be negative", ErrInvalidConfig)
	}
	if c.Database.Pool.MaxIdle > c.Database.Pool.MaxOpen && c.Database.Pool.MaxOpen > 0 {
		return fmt.Errorf("%w: database.pool.max_idle %d exceeds max_open %d",
			ErrInvalidConfig, c.Database.Pool.MaxIdle, c.Database.Pool.MaxOpen)
	}

	switch c.Observability.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Observability.Logging.Level)
	}
	switch c.Observability.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Observability.Logging.Format)
	}

	ratio := c.Observability.TraceSampleRatio
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: observability.trace_sample_ratio %v out of range [0, 1]", ErrInvalidConfig, ratio)
	}

	return nil
}
