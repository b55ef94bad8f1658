package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/metrics"
)

// serviceTokenUseCaseWithMetrics decorates ServiceTokenUseCase with metrics instrumentation.
type serviceTokenUseCaseWithMetrics struct {
	next    ServiceTokenUseCase
	metrics metrics.BusinessMetrics
}

// NewServiceTokenUseCaseWithMetrics wraps a ServiceTokenUseCase with metrics recording.
func NewServiceTokenUseCaseWithMetrics(
	useCase ServiceTokenUseCase,
	m metrics.BusinessMetrics,
) ServiceTokenUseCase {
	return &serviceTokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for service token creation operations.
func (s *serviceTokenUseCaseWithMetrics) Create(
	ctx context.Context,
	input *CreateServiceTokenInput,
) (*domain.ServiceToken, string, error) {
	start := time.Now()
	token, plainToken, err := s.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "connector", "service_token_create", status)
	s.metrics.RecordDuration(ctx, "connector", "service_token_create", time.Since(start), status)

	return token, plainToken, err
}

// Rotate records metrics for service token rotation operations.
func (s *serviceTokenUseCaseWithMetrics) Rotate(
	ctx context.Context,
	tokenID uuid.UUID,
) (string, error) {
	start := time.Now()
	plainToken, err := s.next.Rotate(ctx, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "connector", "service_token_rotate", status)
	s.metrics.RecordDuration(ctx, "connector", "service_token_rotate", time.Since(start), status)

	return plainToken, err
}

// SetActive records metrics for service token activation operations.
func (s *serviceTokenUseCaseWithMetrics) SetActive(
	ctx context.Context,
	tokenID uuid.UUID,
	active bool,
) error {
	start := time.Now()
	err := s.next.SetActive(ctx, tokenID, active)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "connector", "service_token_set_active", status)
	s.metrics.RecordDuration(ctx, "connector", "service_token_set_active", time.Since(start), status)

	return err
}

// Authenticate records metrics for inbound token authentication operations.
func (s *serviceTokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	plainToken string,
) (*domain.ServiceToken, error) {
	start := time.Now()
	token, err := s.next.Authenticate(ctx, plainToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "connector", "service_token_authenticate", status)
	s.metrics.RecordDuration(ctx, "connector", "service_token_authenticate", time.Since(start), status)

	return token, err
}

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(
	useCase AuditLogUseCase,
	m metrics.BusinessMetrics,
) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit entry writes. Record itself never fails,
// so the status is always success.
func (a *auditLogUseCaseWithMetrics) Record(ctx context.Context, entry *domain.AuditLog) {
	start := time.Now()
	a.next.Record(ctx, entry)

	a.metrics.RecordOperation(ctx, "connector", "audit_log_record", "success")
	a.metrics.RecordDuration(ctx, "connector", "audit_log_record", time.Since(start), "success")
}

// List records metrics for audit log listing operations.
func (a *auditLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	start := time.Now()
	entries, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "connector", "audit_log_list", status)
	a.metrics.RecordDuration(ctx, "connector", "audit_log_list", time.Since(start), status)

	return entries, err
}

// CleanOlderThan records metrics for audit log maintenance operations.
func (a *auditLogUseCaseWithMetrics) CleanOlderThan(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	start := time.Now()
	removed, err := a.next.CleanOlderThan(ctx, retention)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "connector", "audit_log_clean", status)
	a.metrics.RecordDuration(ctx, "connector", "audit_log_clean", time.Since(start), status)

	return removed, err
}

// employeeLinkUseCaseWithMetrics decorates EmployeeLinkUseCase with metrics instrumentation.
type employeeLinkUseCaseWithMetrics struct {
	next    EmployeeLinkUseCase
	metrics metrics.BusinessMetrics
}

// NewEmployeeLinkUseCaseWithMetrics wraps an EmployeeLinkUseCase with metrics recording.
func NewEmployeeLinkUseCaseWithMetrics(
	useCase EmployeeLinkUseCase,
	m metrics.BusinessMetrics,
) EmployeeLinkUseCase {
	return &employeeLinkUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// LinkEmployee records metrics for employee link operations.
func (e *employeeLinkUseCaseWithMetrics) LinkEmployee(
	ctx context.Context,
	email string,
	employeeID int64,
) error {
	start := time.Now()
	err := e.next.LinkEmployee(ctx, email, employeeID)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "connector", "employee_link", status)
	e.metrics.RecordDuration(ctx, "connector", "employee_link", time.Since(start), status)

	return err
}
