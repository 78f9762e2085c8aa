package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an account allowed to manage payment split methods.
type Admin struct {
	// ID is the unique identifier for the admin (UUID format).
	ID string

	// Username is used to log in (unique).
	Username string

	// PasswordHash is the bcrypt hash of the admin's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewAdmin creates an Admin with a fresh ID and creation time.
func NewAdmin(username, passwordHash string) *Admin {
	return &Admin{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
