package users

import (
	"errors"
	"strings"
	"time"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPassword         = errors.New("account has no password")
	ErrEmailTaken         = errors.New("email already registered")
)

// User is an authenticated identity. Whether it may use the admin console
// lives on its Profile, not here.
type User struct {
	ID           uint
	Email        string
	PasswordHash *string
	AuthProvider string
	GoogleSub    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is keyed by the identity id.
type Profile struct {
	UserID  uint
	IsAdmin bool
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
