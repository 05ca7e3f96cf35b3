package database

import (
	"fmt"
	"time"
)

// Config holds database connection configuration.
type Config struct {
	// DSN is the SQLite data source, e.g. "file:companion.db?_busy_timeout=5000".
	DSN string `mapstructure:"dsn"`

	// MaxOpenConns sets the maximum number of open connections (default: 1).
	// SQLite serializes writers, so a single connection avoids "database is locked".
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns sets the maximum number of idle connections (default: 1).
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (default: 1h).
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// MaxRetries is the number of connection attempts before giving up (default: 5).
	MaxRetries int `mapstructure:"max_retries"`

	// AutoMigrate applies pending SQL migrations when the component starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`

	// SlowQueryThreshold is the duration above which queries are logged as slow (default: 200ms).
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info (default: warn).
	LogLevel string `mapstructure:"log_level"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DSN == "" {
		c.DSN = "file:companion.db?_busy_timeout=5000&_foreign_keys=on"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 1
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.SlowQueryThreshold == 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks that required fields are present and consistent.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	switch c.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("database.log_level must be one of silent, error, warn, info (got: %s)", c.LogLevel)
	}
	return nil
}
