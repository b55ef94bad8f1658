package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// RunCleanAuditLogs deletes audit logs older than the specified number of days.
// Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditLogs(
	ctx context.Context,
	auditUC connectorUseCase.AuditLogUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	format string,
) error {
	if days < 1 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit logs", slog.Int("days", days))

	retention := time.Duration(days) * 24 * time.Hour
	count, err := auditUC.CleanOlderThan(ctx, retention)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"count": count,
			"days":  days,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(out, "Successfully deleted %d audit log(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
	)

	return nil
}
