// Package service provides technical services for portal authentication.
//
// This package implements password hashing, JWT signing and verification, and
// single-use reset token generation using industry-standard cryptographic
// practices.
package service

import (
	authDomain "github.com/allisson/hrgate/internal/auth/domain"
)

// PasswordService defines operations for password hashing and validation.
// Implementations must use industry-standard hashing algorithms (e.g., argon2).
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (hashedPassword string, error error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true if the password matches, false otherwise.
	// This is constant-time to prevent timing attacks.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// JWTService defines operations for issuing and verifying portal bearer tokens.
//
// Access and refresh tokens are signed with the same key but carry a distinct
// token_use claim, so neither can be presented in place of the other.
type JWTService interface {
	// IssueAccessToken signs a short-lived access token for the user.
	// Access tokens embed the user's admin flag for request authorization.
	IssueAccessToken(user *authDomain.User) (string, error)

	// IssueRefreshToken signs a longer-lived refresh token for the user.
	// Refresh tokens carry only the subject; privileges are re-derived from
	// the user record when the token is exchanged.
	IssueRefreshToken(user *authDomain.User) (string, error)

	// VerifyAccessToken validates an access token and returns its claims.
	// Returns ErrInvalidToken for expired, malformed, or refresh tokens.
	VerifyAccessToken(token string) (*Claims, error)

	// VerifyRefreshToken validates a refresh token and returns its claims.
	// Returns ErrInvalidToken for expired, malformed, or access tokens.
	VerifyRefreshToken(token string) (*Claims, error)
}

// ResetTokenService defines operations for password-reset token generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing algorithms suitable for short-lived tokens (e.g., SHA-256).
type ResetTokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (delivered to the user by email) and
	// the hashed version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for token validation by comparing hashes.
	HashToken(plainToken string) string
}
