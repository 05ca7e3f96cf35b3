// Package token issues and verifies signed, time-bounded identity tokens.
//
// Tokens are compact HMAC-signed JWTs carrying the account id and username.
// Verification is a pure function of the token, the signing secret and the
// verification time, so it never consults storage.
//
// Usage:
//
//	svc, err := token.NewService(token.Config{Secret: secret})
//	signed, err := svc.Issue(userID, username)
//	claims, err := svc.Verify(signed)
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Exactly one is returned for a rejected token.
var (
	ErrMalformed        = errors.New("token: malformed")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrExpired          = errors.New("token: outside validity window")
)

// Claims is the identity asserted by a token.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	gojwt.RegisteredClaims
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source used by Issue and Verify.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service issues and verifies tokens with a single signing secret.
// It is immutable after construction and safe for concurrent use.
type Service struct {
	cfg    Config
	secret []byte
	now    func() time.Time
}

// NewService creates a token service. The secret must be passed in explicitly.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	s := &Service{cfg: cfg, secret: []byte(cfg.Secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.cfg.TTL }

// Issue mints a token for the given identity, valid for TTL from the
// current second. Claims carry whole seconds, so the clock is truncated
// first and exp is exactly iat+TTL.
func (s *Service) Issue(userID, username string) (string, error) {
	if userID == "" || username == "" {
		return "", errors.New("token: user id and username are required")
	}
	now := s.now().Truncate(time.Second)
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks a token against the current time.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.VerifyAt(token, s.now())
}

// VerifyAt checks a token as of now. The signature is checked before any
// claim, so a forged token is never reported as expired.
func (s *Service) VerifyAt(token string, now time.Time) (*Claims, error) {
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(func() time.Time { return now }),
		gojwt.WithIssuedAt(),
		gojwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		return nil, classify(err)
	}
	if s.cfg.Issuer != "" && claims.Issuer != s.cfg.Issuer {
		return nil, ErrInvalidSignature
	}
	if claims.UserID == "" || claims.Username == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (s *Service) keyFunc(t *gojwt.Token) (interface{}, error) {
	if t.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
	}
	return s.secret, nil
}

// classify maps parser errors onto the three verification failures.
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid),
		errors.Is(err, gojwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, gojwt.ErrTokenExpired),
		errors.Is(err, gojwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, gojwt.ErrTokenNotValidYet):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
