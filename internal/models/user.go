package models

import (
	"time"
)

// User represents an anonymous or registered user in the system.
// Anonymous users are identified solely by the hash of their signed token;
// registered users additionally carry email and password credentials.
type User struct {
	ID          string    `json:"id" db:"id"`
	TokenHash   string    `json:"-" db:"token_hash"` // Hashed version of the current token
	IsAnonymous bool      `json:"is_anonymous" db:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LastActive  time.Time `json:"last_active" db:"last_active"`

	// Set only for registered accounts
	Email         *string `json:"email,omitempty" db:"email"`
	PasswordHash  *string `json:"-" db:"password_hash"` // Hidden from JSON responses
	Name          *string `json:"name,omitempty" db:"name"`
	EmailVerified bool    `json:"email_verified" db:"email_verified"`
}
