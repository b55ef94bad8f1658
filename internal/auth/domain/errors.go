package domain

import (
	"github.com/allisson/hrgate/internal/errors"
)

// Authentication errors.
var (
	// ErrUserNotFound indicates a user with the specified ID or email was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrInvalidCredentials indicates the email or password did not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "incorrect email or password")

	// ErrUserInactive indicates the account is deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrUnauthorized, "user account is inactive")

	// ErrInvalidToken indicates a bearer token that is missing, malformed, expired,
	// or of the wrong kind (e.g. a refresh token presented as an access token).
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid or expired token")

	// ErrInvalidResetToken indicates a password-reset token that is unknown,
	// expired, or already consumed.
	ErrInvalidResetToken = errors.Wrap(errors.ErrInvalidInput, "invalid or expired password reset token")
)
