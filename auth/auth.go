package auth

import "github.com/kbukum/companion/auth/token"

// Verifier checks a bearer token and returns the identity it asserts.
// The authentication gate depends on this contract rather than on
// *token.Service, so tests can count or stub verifications.
type Verifier interface {
	Verify(raw string) (*token.Claims, error)
}

// VerifierFunc adapts an ordinary function to the Verifier interface.
type VerifierFunc func(raw string) (*token.Claims, error)

// Verify implements Verifier.
func (f VerifierFunc) Verify(raw string) (*token.Claims, error) {
	return f(raw)
}

// Issuer mints tokens for authenticated accounts.
type Issuer interface {
	Issue(userID, username string) (string, error)
}

var (
	_ Verifier = (*token.Service)(nil)
	_ Issuer   = (*token.Service)(nil)
)
