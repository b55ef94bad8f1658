package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
)

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditRepo AuditLogRepository
	logger    *slog.Logger
}

// NewAuditLogUseCase creates a new audit log use case with required dependencies.
func NewAuditLogUseCase(auditRepo AuditLogRepository, logger *slog.Logger) AuditLogUseCase {
	return &auditLogUseCase{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record persists an audit entry. A persistence failure is logged and
// swallowed: the guarded request must never fail because the audit insert
// did.
func (u *auditLogUseCase) Record(ctx context.Context, entry *domain.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.Must(uuid.NewV7())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := u.auditRepo.Create(ctx, entry); err != nil {
		u.logger.Error("failed to persist audit log entry",
			slog.String("endpoint", entry.Endpoint),
			slog.String("method", entry.Method),
			slog.Int("status_code", entry.StatusCode),
			slog.Any("error", err),
		)
	}
}

// List returns audit entries, newest first.
func (u *auditLogUseCase) List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error) {
	return u.auditRepo.List(ctx, offset, limit)
}

// CleanOlderThan removes entries older than the retention period.
func (u *auditLogUseCase) CleanOlderThan(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	before := time.Now().UTC().Add(-retention)

	removed, err := u.auditRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}

	u.logger.Info("audit log cleaned",
		slog.Int64("removed", removed),
		slog.Time("before", before),
	)

	return removed, nil
}
