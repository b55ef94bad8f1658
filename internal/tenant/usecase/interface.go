// Package usecase implements business logic for tenant credential management.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
	"github.com/allisson/hrgate/internal/upstream"
)

// TenantRepository defines the persistence contract for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *tenantDomain.Tenant) error
	Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error)
}

// CredentialRepository defines the persistence contract for tenant credentials.
type CredentialRepository interface {
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Credential, error)
	Upsert(ctx context.Context, credential *tenantDomain.Credential) error
}

// UpstreamCaller is the subset of the HR backend client needed to probe
// connectivity.
type UpstreamCaller interface {
	CallJSON(
		ctx context.Context,
		target upstream.Target,
		method, endpoint string,
		payload any,
	) (json.RawMessage, error)
}

// UpsertCredentialInput contains the parameters for configuring a tenant
// credential. The plaintext API key is encrypted before persistence.
type UpsertCredentialInput struct {
	TenantID  uuid.UUID
	BaseURL   string
	AccountID int64
	APIKey    string
}

// CredentialUseCase defines the business operations for tenant credentials.
type CredentialUseCase interface {
	// GetCredential returns the stored credential record without decrypting
	// the API key.
	GetCredential(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Credential, error)

	// GetDecryptedCredential returns the credential with the API key
	// decrypted for a single outbound call.
	GetDecryptedCredential(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.DecryptedCredential, error)

	// UpsertCredential encrypts the API key and replaces the tenant's
	// credential record in a single write.
	UpsertCredential(ctx context.Context, input *UpsertCredentialInput) (*tenantDomain.Credential, error)

	// TestConnection probes the tenant's HR backend with the stored
	// credential.
	TestConnection(ctx context.Context, tenantID uuid.UUID) (json.RawMessage, error)
}
