// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/hrgate/internal/app"
	connectorDomain "github.com/allisson/hrgate/internal/connector/domain"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseScope converts a comma-separated resource kind list into a scope.
// An empty input yields a nil scope, which grants unrestricted access.
func parseScope(scopeStr string) []connectorDomain.ResourceKind {
	if strings.TrimSpace(scopeStr) == "" {
		return nil
	}

	var scope []connectorDomain.ResourceKind
	for _, part := range strings.Split(scopeStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			scope = append(scope, connectorDomain.ResourceKind(part))
		}
	}
	return scope
}
