package server

import (
	"fmt"
	"time"

	"github.com/kbukum/companion/security"
	"github.com/kbukum/companion/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host              string                `mapstructure:"host"`
	Port              int                   `mapstructure:"port"`
	ReadTimeout       time.Duration         `mapstructure:"read_timeout"`
	ReadHeaderTimeout time.Duration         `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration         `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration         `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration         `mapstructure:"shutdown_timeout"`
	MaxBodySize       string                `mapstructure:"max_body_size"` // e.g. "1MB"
	CORS              middleware.CORSConfig `mapstructure:"cors"`
	TLS               security.TLSConfig    `mapstructure:"tls"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = []string{middleware.RequestIDHeader}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("server.%s must be non-negative (got: %s)", name, d)
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("server.%w", err)
	}
	return nil
}

// Address returns host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
