// Package authctx carries the verified caller identity through a request context.
//
// Usage:
//
//	// in the authentication gate
//	ctx = authctx.Set(ctx, authctx.Identity{UserID: id, Username: name})
//
//	// in handlers
//	id, ok := authctx.Get(ctx)
package authctx

import (
	"context"
	"errors"
)

// Identity is the caller established by a verified token.
type Identity struct {
	UserID   string
	Username string
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// Set stores the identity in the context.
func Set(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get retrieves the identity from the context.
func Get(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// MustGet retrieves the identity and panics if it is missing.
// Use only behind the authentication gate.
func MustGet(ctx context.Context) Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// ErrNoIdentity is returned when no identity is attached to the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// GetOrError retrieves the identity or returns ErrNoIdentity.
func GetOrError(ctx context.Context) (Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
