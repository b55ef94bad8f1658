package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/allisson/hrgate/internal/errors"
)

// employeeLinkUseCase implements EmployeeLinkUseCase.
type employeeLinkUseCase struct {
	users  UserLinker
	logger *slog.Logger
}

// NewEmployeeLinkUseCase creates a new employee link use case with required dependencies.
func NewEmployeeLinkUseCase(users UserLinker, logger *slog.Logger) EmployeeLinkUseCase {
	return &employeeLinkUseCase{
		users:  users,
		logger: logger,
	}
}

// LinkEmployee binds the portal user identified by email to an HR employee
// record. A zero employeeID clears the binding.
func (u *employeeLinkUseCase) LinkEmployee(
	ctx context.Context,
	email string,
	employeeID int64,
) error {
	if email == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "email is required")
	}
	if employeeID < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "employee id must not be negative")
	}

	if err := u.users.UpdateEmployeeID(ctx, email, employeeID); err != nil {
		return err
	}

	u.logger.Info("employee link updated",
		slog.String("email", email),
		slog.Int64("employee_id", employeeID),
	)

	return nil
}
