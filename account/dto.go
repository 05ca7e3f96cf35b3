package account

import (
	"encoding/json"
	"time"
)

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username    string          `json:"username" validate:"required,max=64"`
	EmailID     string          `json:"emailId" validate:"required,email,max=254"`
	Password    string          `json:"password" validate:"required"`
	FullName    string          `json:"fullName" validate:"max=255"`
	Bio         string          `json:"bio" validate:"max=4096"`
	Preferences json.RawMessage `json:"preferences"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	EmailID  string `json:"emailId" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateRequest is the body of PUT /{userId}. Absent fields are unchanged.
type UpdateRequest struct {
	Username    *string         `json:"username" validate:"omitempty,min=1,max=64"`
	EmailID     *string         `json:"emailId" validate:"omitempty,email,max=254"`
	Password    *string         `json:"password" validate:"omitempty,min=1"`
	FullName    *string         `json:"fullName" validate:"omitempty,max=255"`
	Bio         *string         `json:"bio" validate:"omitempty,max=4096"`
	Preferences json.RawMessage `json:"preferences"`
}

func (r *SignupRequest) normalize() { r.EmailID = NormalizeEmail(r.EmailID) }

func (r *LoginRequest) normalize() { r.EmailID = NormalizeEmail(r.EmailID) }

func (r *UpdateRequest) normalize() {
	if r.EmailID != nil {
		email := NormalizeEmail(*r.EmailID)
		r.EmailID = &email
	}
}

// PublicProfile is the account view returned by signup, login and update.
type PublicProfile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	EmailID  string `json:"emailId"`
	FullName string `json:"fullName"`
}

// Profile is the full account view returned by GET. It never includes the hash.
type Profile struct {
	PublicProfile
	Bio           string          `json:"bio"`
	Preferences   json.RawMessage `json:"preferences"`
	Role          Role            `json:"role"`
	AccountStatus Status          `json:"accountStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// AuthResponse is the body of a successful signup or login.
type AuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    PublicProfile `json:"user"`
}

// UserResponse is the body of a successful GET.
type UserResponse struct {
	User Profile `json:"user"`
}

// UpdateResponse is the body of a successful PUT.
type UpdateResponse struct {
	Message string        `json:"message"`
	User    PublicProfile `json:"user"`
}

// MessageResponse is the body of a successful DELETE.
type MessageResponse struct {
	Message string `json:"message"`
}

func publicProfile(a *Account) PublicProfile {
	return PublicProfile{
		UserID:   a.UserID,
		Username: a.Username,
		EmailID:  a.EmailID,
		FullName: a.FullName,
	}
}

func fullProfile(a *Account) Profile {
	p := Profile{
		PublicProfile: publicProfile(a),
		Bio:           a.Bio,
		Role:          a.Role,
		AccountStatus: a.AccountStatus,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Preferences != "" {
		p.Preferences = json.RawMessage(a.Preferences)
	}
	return p
}
