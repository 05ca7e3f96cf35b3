package account

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/companion/database"
)

// updatableColumns are the columns Update writes.
var updatableColumns = []string{
	"username", "email_id", "password_hash", "full_name", "bio", "preferences", "updated_at",
}

// Store is the GORM-backed Directory.
type Store struct {
	db *gorm.DB
}

var _ Directory = (*Store)(nil)

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByUsernameOrEmail returns the first account whose username or email matches.
func (s *Store) FindByUsernameOrEmail(ctx context.Context, username, emailID string) (*Account, error) {
	return s.first(ctx, "username = ? OR email_id = ?", username, emailID)
}

// FindByEmail returns the account with the given email.
func (s *Store) FindByEmail(ctx context.Context, emailID string) (*Account, error) {
	return s.first(ctx, "email_id = ?", emailID)
}

// FindByID returns the account with the given id.
func (s *Store) FindByID(ctx context.Context, userID string) (*Account, error) {
	return s.first(ctx, "user_id = ?", userID)
}

// Create inserts a.
func (s *Store) Create(ctx context.Context, a *Account) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return translate("create account", err)
	}
	return nil
}

// Update writes the mutable fields of a by primary key.
func (s *Store) Update(ctx context.Context, a *Account) error {
	res := s.db.WithContext(ctx).Model(a).Select(updatableColumns).Updates(a)
	if res.Error != nil {
		return translate("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the account permanently.
func (s *Store) Delete(ctx context.Context, userID string) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Account{})
	if res.Error != nil {
		return translate("delete account", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) first(ctx context.Context, query string, args ...any) (*Account, error) {
	var a Account
	if err := s.db.WithContext(ctx).Where(query, args...).Take(&a).Error; err != nil {
		return nil, translate("find account", err)
	}
	return &a, nil
}

func translate(op string, err error) error {
	switch {
	case database.IsNotFoundError(err):
		return ErrNotFound
	case database.IsDuplicateError(err):
		return ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
