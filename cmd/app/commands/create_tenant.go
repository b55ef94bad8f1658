package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
	tenantUseCase "github.com/allisson/hrgate/internal/tenant/usecase"
)

// RunCreateTenant registers a new tenant and prints its ID.
// The tenant starts without a downstream credential; configure one through
// the admin API before portal users can reach the HR backend.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTenant(
	ctx context.Context,
	tenantRepo tenantUseCase.TenantRepository,
	logger *slog.Logger,
	out io.Writer,
	name string,
	isActive bool,
	format string,
) error {
	if name == "" {
		return fmt.Errorf("tenant name is required")
	}

	logger.Info("creating tenant", slog.String("name", name))

	now := time.Now().UTC()
	tenant := &tenantDomain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := tenantRepo.Create(ctx, tenant); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":        tenant.ID.String(),
			"name":      tenant.Name,
			"is_active": tenant.IsActive,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(out, "Tenant created successfully\n")
		_, _ = fmt.Fprintf(out, "ID: %s\n", tenant.ID.String())
		_, _ = fmt.Fprintf(out, "Name: %s\n", tenant.Name)
	}

	logger.Info("tenant created successfully",
		slog.String("tenant_id", tenant.ID.String()),
		slog.String("name", name),
	)

	return nil
}
