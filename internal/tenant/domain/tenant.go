// Package domain defines the core entities for tenant and credential management.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary for portal users. Every user belongs to
// exactly one tenant, and every tenant has at most one downstream credential.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential maps a tenant to its downstream HR backend. The API key is
// stored encrypted; the plaintext never leaves the call stack that needs it.
type Credential struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	BaseURL         string
	AccountID       int64
	EncryptedAPIKey string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DecryptedCredential carries the plaintext API key for a single outbound
// call. It is never persisted or cached.
type DecryptedCredential struct {
	BaseURL   string
	AccountID int64
	APIKey    string
}
