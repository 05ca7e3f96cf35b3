// Package auth composes the credential building blocks of the service.
//
// Subpackages:
//
//   - auth/password: salted one-way password digests (bcrypt, argon2id)
//   - auth/token: HMAC-signed, time-bounded identity tokens
//   - auth/authctx: verified identity in the request context
//
// This package holds the combined configuration and the Verifier contract
// the authentication gate depends on.
package auth
