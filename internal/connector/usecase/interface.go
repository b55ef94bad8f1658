// Package usecase implements the business logic for inbound service tokens,
// the audit trail, and employee linking.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
)

// ServiceTokenRepository defines the interface for service token persistence.
type ServiceTokenRepository interface {
	Create(ctx context.Context, token *domain.ServiceToken) error
	Get(ctx context.Context, tokenID uuid.UUID) (*domain.ServiceToken, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.ServiceToken, error)
	List(ctx context.Context, offset, limit int) ([]*domain.ServiceToken, error)
	UpdateTokenHash(ctx context.Context, tokenID uuid.UUID, tokenHash string) error
	SetActive(ctx context.Context, tokenID uuid.UUID, active bool) error
	TouchLastUsed(ctx context.Context, tokenID uuid.UUID, usedAt time.Time) error
}

// AuditLogRepository defines the interface for audit log persistence.
// The audit log is append-only: entries are inserted, listed and expired,
// never updated.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// UserLinker binds portal users to HR employee records.
type UserLinker interface {
	UpdateEmployeeID(ctx context.Context, email string, employeeID int64) error
}

// CreateServiceTokenInput represents the data needed to create a service token.
type CreateServiceTokenInput struct {
	Name      string
	AccountID int64
	Scope     []domain.ResourceKind
	Note      string
}

// ServiceTokenUseCase defines the interface for service token operations.
type ServiceTokenUseCase interface {
	// Create issues a new service token. The plain token value is returned
	// exactly once and cannot be recovered afterwards.
	Create(ctx context.Context, input *CreateServiceTokenInput) (*domain.ServiceToken, string, error)

	// Rotate replaces the token value on an existing record. The old value
	// stops authenticating immediately.
	Rotate(ctx context.Context, tokenID uuid.UUID) (string, error)

	// SetActive enables or disables a service token.
	SetActive(ctx context.Context, tokenID uuid.UUID, active bool) error

	// Authenticate resolves an inbound plain token value to an active
	// service token. The token's last-used timestamp is updated best-effort.
	Authenticate(ctx context.Context, plainToken string) (*domain.ServiceToken, error)
}

// AuditLogUseCase defines the interface for audit log operations.
type AuditLogUseCase interface {
	// Record persists an audit entry best-effort: persistence failures are
	// logged and never propagated to the caller.
	Record(ctx context.Context, entry *domain.AuditLog)

	// List returns audit entries, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLog, error)

	// CleanOlderThan removes entries older than the retention period and
	// returns the number of removed entries.
	CleanOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// EmployeeLinkUseCase defines the interface for binding portal users to HR
// employee records.
type EmployeeLinkUseCase interface {
	LinkEmployee(ctx context.Context, email string, employeeID int64) error
}
