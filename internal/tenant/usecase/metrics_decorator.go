package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/metrics"
	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GetCredential records metrics for credential lookup operations.
func (c *credentialUseCaseWithMetrics) GetCredential(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.GetCredential(ctx, tenantID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "tenant", "credential_get", status)
	c.metrics.RecordDuration(ctx, "tenant", "credential_get", time.Since(start), status)

	return credential, err
}

// GetDecryptedCredential records metrics for credential decryption operations.
func (c *credentialUseCaseWithMetrics) GetDecryptedCredential(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.DecryptedCredential, error) {
	start := time.Now()
	decrypted, err := c.next.GetDecryptedCredential(ctx, tenantID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "tenant", "credential_decrypt", status)
	c.metrics.RecordDuration(ctx, "tenant", "credential_decrypt", time.Since(start), status)

	return decrypted, err
}

// UpsertCredential records metrics for credential configuration operations.
func (c *credentialUseCaseWithMetrics) UpsertCredential(
	ctx context.Context,
	input *UpsertCredentialInput,
) (*tenantDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.UpsertCredential(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "tenant", "credential_upsert", status)
	c.metrics.RecordDuration(ctx, "tenant", "credential_upsert", time.Since(start), status)

	return credential, err
}

// TestConnection records metrics for connection probe operations.
func (c *credentialUseCaseWithMetrics) TestConnection(
	ctx context.Context,
	tenantID uuid.UUID,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := c.next.TestConnection(ctx, tenantID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "tenant", "connection_test", status)
	c.metrics.RecordDuration(ctx, "tenant", "connection_test", time.Since(start), status)

	return result, err
}
