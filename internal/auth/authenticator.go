package auth

import (
	"context"

	"github.com/mmynk/paysplit/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// SSO, etc.) without changing the web or service layers.
type Authenticator interface {
	// Register creates a new admin account with the given credential.
	Register(ctx context.Context, username, credential string) (*models.Admin, error)

	// Authenticate verifies the credentials and returns the admin if successful.
	Authenticate(ctx context.Context, username, credential string) (*models.Admin, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
