package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account's authorization role. It is stored but not enforced.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status is the account lifecycle state. Only active accounts can log in.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Account is a registered user. PasswordHash is never serialized.
type Account struct {
	UserID        string    `gorm:"column:user_id;primaryKey" json:"userId"`
	Username      string    `gorm:"column:username" json:"username"`
	EmailID       string    `gorm:"column:email_id" json:"emailId"`
	PasswordHash  string    `gorm:"column:password_hash" json:"-"`
	FullName      string    `gorm:"column:full_name" json:"fullName"`
	Bio           string    `gorm:"column:bio" json:"bio"`
	Preferences   string    `gorm:"column:preferences" json:"-"`
	Role          Role      `gorm:"column:role" json:"role"`
	AccountStatus Status    `gorm:"column:account_status" json:"accountStatus"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName maps Account to the users table.
func (Account) TableName() string { return "users" }

// BeforeCreate assigns the id and defaults for a new account.
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.UserID == "" {
		a.UserID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	if a.AccountStatus == "" {
		a.AccountStatus = StatusActive
	}
	return nil
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.AccountStatus == StatusActive
}

// NormalizeEmail returns the canonical form used for storage, lookup and
// uniqueness: surrounding whitespace removed, lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
