package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported HMAC signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// MinSecretLength is the shortest signing secret the service accepts.
const MinSecretLength = 32

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = time.Hour

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key. Required, at least MinSecretLength bytes.
	Secret string `mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `mapstructure:"method"`

	// Issuer is the "iss" claim (optional). When set, tokens from other issuers are rejected.
	Issuer string `mapstructure:"issuer"`

	// TTL is the lifetime of issued tokens (default: 1h).
	TTL time.Duration `mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return errors.New("unsupported signing method: " + string(c.Method))
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("secret must be at least %d bytes (got: %d)", MinSecretLength, len(c.Secret))
	}
	if c.TTL < time.Second {
		return fmt.Errorf("ttl must be at least 1s (got: %s)", c.TTL)
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
