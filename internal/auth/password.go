package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUsernameExists     = errors.New("username already registered")
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage storage.AdminStore
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage storage.AdminStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new admin account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, credential string) (*models.Admin, error) {
	// Validate password strength
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	// Hash the password
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create admin model
	admin := models.NewAdmin(username, string(hashed))

	// Save to storage
	if err := a.storage.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// Authenticate verifies the username and password, returning the admin if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.Admin, error) {
	// Get admin by username
	admin, err := a.storage.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// EnsureAdmin registers username with password unless the account exists.
// It reports whether an account was created.
func EnsureAdmin(ctx context.Context, a Authenticator, username, password string) (bool, error) {
	_, err := a.Register(ctx, username, password)
	if errors.Is(err, ErrUsernameExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
