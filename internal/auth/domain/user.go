// Package domain defines portal user domain models.
//
// Portal users belong to a tenant and authenticate with email and password.
// Successful logins yield a short-lived JWT access token and a longer-lived
// refresh token; password resets use single-use opaque tokens stored hashed.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a portal account belonging to a tenant.
type User struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Email          string
	FullName       string
	HashedPassword string //nolint:gosec // argon2id hash (not plaintext)
	IsActive       bool   // Inactive users cannot log in or reset their password
	IsAdmin        bool   // Admins manage tenant credentials and other users
	EmployeeID     *int64 // Employee record in the tenant HR backend (nil if unmapped)

	// Password reset state. The token itself is never stored, only its
	// SHA-256 hash. Both fields are cleared when the token is consumed.
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// BearerTokenType is the token_type value returned with every token pair.
const BearerTokenType = "bearer"
