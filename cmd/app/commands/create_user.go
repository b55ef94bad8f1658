package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/allisson/hrgate/internal/auth/usecase"
)

// RunCreateUser registers a new portal user within a tenant.
// Pass employeeID 0 to leave the user unlinked from the HR system; the link
// can be established later through the connector API.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	authUC authUseCase.AuthUseCase,
	logger *slog.Logger,
	out io.Writer,
	tenantID string,
	email string,
	fullName string,
	password string,
	isAdmin bool,
	employeeID int64,
	format string,
) error {
	parsedTenantID, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	logger.Info("creating user",
		slog.String("email", email),
		slog.String("tenant_id", tenantID),
	)

	input := &authUseCase.CreateUserInput{
		TenantID: parsedTenantID,
		Email:    email,
		FullName: fullName,
		Password: password,
		IsAdmin:  isAdmin,
	}
	if employeeID > 0 {
		input.EmployeeID = &employeeID
	}

	user, err := authUC.CreateUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":       user.ID.String(),
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(out, "User created successfully\n")
		_, _ = fmt.Fprintf(out, "ID: %s\n", user.ID.String())
		_, _ = fmt.Fprintf(out, "Email: %s\n", user.Email)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("email", email),
		slog.Bool("is_admin", isAdmin),
	)

	return nil
}
