package account

import (
	"fmt"
	"strings"
	"time"
)

// Config holds account endpoint configuration.
type Config struct {
	// BasePath is the route prefix for the account endpoints (default: /api/users).
	BasePath string `mapstructure:"base_path"`

	// DirectoryTimeout bounds every directory call (default: 5s).
	DirectoryTimeout time.Duration `mapstructure:"directory_timeout"`

	// MaxPreferencesBytes bounds the stored preferences document (default: 16KiB).
	MaxPreferencesBytes int `mapstructure:"max_preferences_bytes"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api/users"
	}
	if c.DirectoryTimeout == 0 {
		c.DirectoryTimeout = 5 * time.Second
	}
	if c.MaxPreferencesBytes == 0 {
		c.MaxPreferencesBytes = 16 << 10
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("accounts.base_path must start with / (got: %q)", c.BasePath)
	}
	if c.DirectoryTimeout <= 0 {
		return fmt.Errorf("accounts.directory_timeout must be > 0 (got: %s)", c.DirectoryTimeout)
	}
	if c.MaxPreferencesBytes < 0 {
		return fmt.Errorf("accounts.max_preferences_bytes must be >= 0 (got: %d)", c.MaxPreferencesBytes)
	}
	return nil
}
