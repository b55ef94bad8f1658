package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// RunRotateServiceToken replaces the value of an existing service token.
// The old value stops authenticating immediately; the new plain value is
// printed exactly once.
//
// Requirements: Database must be migrated and accessible.
func RunRotateServiceToken(
	ctx context.Context,
	tokenUC connectorUseCase.ServiceTokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	tokenID string,
	format string,
) error {
	parsedID, err := uuid.Parse(tokenID)
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}

	logger.Info("rotating service token", slog.String("token_id", tokenID))

	plainToken, err := tokenUC.Rotate(ctx, parsedID)
	if err != nil {
		return fmt.Errorf("failed to rotate service token: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":    parsedID.String(),
			"token": plainToken,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(out, "Service token rotated successfully\n")
		_, _ = fmt.Fprintf(out, "ID: %s\n", parsedID.String())
		_, _ = fmt.Fprintf(out, "Token: %s\n", plainToken)
		_, _ = fmt.Fprintf(out, "\nStore this token now. It will not be shown again.\n")
	}

	logger.Info("service token rotated successfully", slog.String("token_id", tokenID))

	return nil
}

// RunSetServiceTokenActive enables or disables a service token without
// changing its value.
//
// Requirements: Database must be migrated and accessible.
func RunSetServiceTokenActive(
	ctx context.Context,
	tokenUC connectorUseCase.ServiceTokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	tokenID string,
	active bool,
) error {
	parsedID, err := uuid.Parse(tokenID)
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}

	logger.Info("updating service token status",
		slog.String("token_id", tokenID),
		slog.Bool("active", active),
	)

	if err := tokenUC.SetActive(ctx, parsedID, active); err != nil {
		return fmt.Errorf("failed to update service token status: %w", err)
	}

	status := "disabled"
	if active {
		status = "enabled"
	}
	_, _ = fmt.Fprintf(out, "Service token %s %s\n", parsedID.String(), status)

	return nil
}
