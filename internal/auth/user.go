package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
)

// Role grants access to parts of the UI
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
	RoleReviewer Role = "reviewer"
	RoleViewer   Role = "viewer"
)

// Roles lists every role in seed order
var Roles = []Role{RoleAdmin, RoleUploader, RoleReviewer, RoleViewer}

// ParseRole accepts a role name in any case
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Status is the account state
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// ParseStatus accepts "active" or "inactive" in any case. Empty means active.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	}
	return "", ErrInvalidStatus
}

// User is one account as stored on disk
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Public returns the user without its password
func (u User) Public() User {
	u.Password = ""
	return u
}

// Active reports whether the account may log in
func (u User) Active() bool {
	return u.Status != StatusInactive
}

// NewUser holds the fields of an account to create
type NewUser struct {
	Username string
	Password string
	Role     string
	Status   string
}

// UserPatch is a partial update. Nil fields are left alone.
type UserPatch struct {
	Username *string
	Password *string
	Role     *string
	Status   *string
}
