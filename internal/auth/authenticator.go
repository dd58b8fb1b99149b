// Package auth provides account registration, credential verification
// and JWT session tokens.
package auth

import (
	"context"

	"github.com/okialbert/wanderlust/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, OAuth, etc.) without changing the API layer.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// The credential format depends on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, format, ...).
	ValidateCredential(credential string) error
}
