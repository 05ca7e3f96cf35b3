package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account: not found")

	// ErrConflict is returned when a write would duplicate a username or email.
	ErrConflict = errors.New("account: username or email already exists")
)

// Directory stores account records. Emails passed in are already normalized.
// Uniqueness of username and email is enforced by the implementation and
// reported as ErrConflict.
type Directory interface {
	FindByUsernameOrEmail(ctx context.Context, username, emailID string) (*Account, error)
	FindByEmail(ctx context.Context, emailID string) (*Account, error)
	FindByID(ctx context.Context, userID string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	// Update writes the mutable profile fields and the password hash of a.
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, userID string) error
}
