package domain

import (
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// Domain errors for tenant operations.
var (
	// ErrTenantNotFound is returned when a tenant does not exist.
	ErrTenantNotFound = apperrors.Wrap(apperrors.ErrNotFound, "tenant not found")

	// ErrCredentialNotConfigured is returned when a tenant has no downstream
	// credential configured.
	ErrCredentialNotConfigured = apperrors.Wrap(apperrors.ErrNotFound, "tenant credential not configured")
)
