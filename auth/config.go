package auth

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kbukum/companion/auth/password"
	"github.com/kbukum/companion/auth/token"
)

// Config holds all authentication configuration.
type Config struct {
	// Token configures token signing and lifetime.
	Token token.Config `mapstructure:"token"`

	// Password configures password hashing.
	Password password.Config `mapstructure:"password"`

	// Hashing bounds the CPU spent on password hashing.
	Hashing HashingConfig `mapstructure:"hashing"`
}

// HashingConfig bounds concurrent hash and verify work.
type HashingConfig struct {
	// MaxConcurrent is the number of hashes computed at once (default: NumCPU).
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// MaxWait is how long a request waits for a free slot (default: 2s).
	MaxWait time.Duration `mapstructure:"max_wait"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
	if c.Hashing.MaxConcurrent == 0 {
		c.Hashing.MaxConcurrent = runtime.NumCPU()
	}
	if c.Hashing.MaxWait == 0 {
		c.Hashing.MaxWait = 2 * time.Second
	}
}

// Validate checks all sub-configurations.
func (c *Config) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("auth.token: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	if c.Hashing.MaxConcurrent < 1 {
		return fmt.Errorf("auth.hashing: max_concurrent must be >= 1 (got: %d)", c.Hashing.MaxConcurrent)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup log.
// Example: "token=HS256 ttl=1h0m0s password=bcrypt(10) hashing=8"
func (c *Config) Describe() string {
	pw := string(c.Password.Algorithm)
	if c.Password.Algorithm == password.AlgorithmBcrypt {
		pw = fmt.Sprintf("bcrypt(%d)", c.Password.BcryptCost)
	}
	return fmt.Sprintf("token=%s ttl=%s password=%s hashing=%d",
		c.Token.Method, c.Token.TTL, pw, c.Hashing.MaxConcurrent)
}
