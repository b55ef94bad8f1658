package domain

import (
	apperrors "github.com/allisson/hrgate/internal/errors"
)

var (
	// ErrServiceTokenNotFound is returned when a service token record does not exist.
	ErrServiceTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "service token not found")

	// ErrInvalidServiceToken is returned when an inbound credential does not
	// match an active service token.
	ErrInvalidServiceToken = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid or inactive service token")

	// ErrInvalidResourceKind is returned when a scope names an unknown resource kind.
	ErrInvalidResourceKind = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid resource kind")
)
