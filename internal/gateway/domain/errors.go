// Package domain defines errors for the gateway proxy operations.
package domain

import (
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// Domain errors for gateway operations.
var (
	// ErrEmployeeNotLinked is returned when an employee-bound operation is
	// attempted by a user with no HR employee mapping.
	ErrEmployeeNotLinked = apperrors.Wrap(apperrors.ErrInvalidInput, "user is not linked to the HR system")
)
