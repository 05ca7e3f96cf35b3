package password

import (
	"fmt"
	"strings"
)

// Algorithm represents supported password hashing algorithms.
type Algorithm string

const (
	// AlgorithmBcrypt is bcrypt hashing (default, compatible with existing digests).
	AlgorithmBcrypt Algorithm = "bcrypt"

	// AlgorithmArgon2id is argon2id hashing.
	AlgorithmArgon2id Algorithm = "argon2id"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// Config configures password hashing behavior.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Algorithm selects the hashing algorithm (default: "bcrypt").
	Algorithm Algorithm `mapstructure:"algorithm"`

	// BcryptCost is the bcrypt cost parameter (default: 10, range: 4-31).
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// Argon2Time is the number of iterations for argon2id (default: 1).
	Argon2Time uint32 `mapstructure:"argon2_time"`

	// Argon2Memory is the memory usage in KiB for argon2id (default: 65536).
	Argon2Memory uint32 `mapstructure:"argon2_memory"`

	// Argon2Threads is the parallelism for argon2id (default: 4).
	Argon2Threads uint8 `mapstructure:"argon2_threads"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("unsupported algorithm: %s (use bcrypt or argon2id)", c.Algorithm)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	return nil
}

// NewHasher creates a Hasher from configuration. Hash uses the configured
// algorithm; Verify picks the algorithm from the digest prefix, so stored
// digests keep verifying after Algorithm changes.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	h := &configHasher{
		bcrypt: NewBcryptHasher(WithCost(cfg.BcryptCost)),
		argon2: NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
		),
	}
	h.primary = h.bcrypt
	if cfg.Algorithm == AlgorithmArgon2id {
		h.primary = h.argon2
	}
	return h
}

type configHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (h *configHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *configHasher) Verify(password, digest string) bool {
	switch DigestAlgorithm(digest) {
	case AlgorithmBcrypt:
		return h.bcrypt.Verify(password, digest)
	case AlgorithmArgon2id:
		return h.argon2.Verify(password, digest)
	default:
		return false
	}
}

// DigestAlgorithm reports which algorithm produced digest, or "" when the
// prefix is not recognized.
func DigestAlgorithm(digest string) Algorithm {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return AlgorithmArgon2id
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return AlgorithmBcrypt
	default:
		return ""
	}
}
