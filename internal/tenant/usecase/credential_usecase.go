package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
	"github.com/allisson/hrgate/internal/upstream"
	"github.com/allisson/hrgate/internal/vault"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	txManager      database.TxManager
	tenantRepo     TenantRepository
	credentialRepo CredentialRepository
	vault          *vault.Vault
	upstreamClient UpstreamCaller
	logger         *slog.Logger
}

// NewCredentialUseCase creates a new credential use case with required dependencies.
func NewCredentialUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	credentialRepo CredentialRepository,
	v *vault.Vault,
	upstreamClient UpstreamCaller,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		tenantRepo:     tenantRepo,
		credentialRepo: credentialRepo,
		vault:          v,
		upstreamClient: upstreamClient,
		logger:         logger,
	}
}

// GetCredential returns the stored credential record without decrypting the
// API key.
func (u *credentialUseCase) GetCredential(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Credential, error) {
	credential, err := u.credentialRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, tenantDomain.ErrCredentialNotConfigured
		}
		return nil, apperrors.Wrap(err, "failed to get tenant credential")
	}

	return credential, nil
}

// GetDecryptedCredential returns the credential with the API key decrypted.
// The plaintext key must not outlive the outbound call that needs it.
func (u *credentialUseCase) GetDecryptedCredential(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.DecryptedCredential, error) {
	credential, err := u.GetCredential(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	apiKey, err := u.vault.Decrypt(credential.EncryptedAPIKey)
	if err != nil {
		u.logger.Error("failed to decrypt tenant credential",
			slog.String("tenant_id", tenantID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &tenantDomain.DecryptedCredential{
		BaseURL:   credential.BaseURL,
		AccountID: credential.AccountID,
		APIKey:    apiKey,
	}, nil
}

// UpsertCredential encrypts the API key and replaces the tenant's credential
// record in a single write. The tenant must exist.
func (u *credentialUseCase) UpsertCredential(
	ctx context.Context,
	input *UpsertCredentialInput,
) (*tenantDomain.Credential, error) {
	encryptedAPIKey, err := u.vault.Encrypt(input.APIKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt API key")
	}

	now := time.Now().UTC()
	credential := &tenantDomain.Credential{
		ID:              uuid.Must(uuid.NewV7()),
		TenantID:        input.TenantID,
		BaseURL:         input.BaseURL,
		AccountID:       input.AccountID,
		EncryptedAPIKey: encryptedAPIKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The tenant check and the upsert share a transaction so the credential
	// cannot be written for a tenant removed in between.
	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := u.tenantRepo.Get(txCtx, input.TenantID); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return tenantDomain.ErrTenantNotFound
			}
			return apperrors.Wrap(err, "failed to get tenant")
		}

		if err := u.credentialRepo.Upsert(txCtx, credential); err != nil {
			return apperrors.Wrap(err, "failed to upsert tenant credential")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("tenant credential configured",
		slog.String("tenant_id", input.TenantID.String()),
		slog.String("base_url", input.BaseURL))

	return credential, nil
}

// TestConnection probes the tenant's HR backend with the stored credential.
// The credential is decrypted for this single call only.
func (u *credentialUseCase) TestConnection(
	ctx context.Context,
	tenantID uuid.UUID,
) (json.RawMessage, error) {
	decrypted, err := u.GetDecryptedCredential(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	target := upstream.Target{
		BaseURL: decrypted.BaseURL,
		APIKey:  decrypted.APIKey,
	}

	result, err := u.upstreamClient.CallJSON(ctx, target, http.MethodGet, "/ess/api/auth-test", nil)
	if err != nil {
		return nil, err
	}

	u.logger.Info("tenant connection test succeeded",
		slog.String("tenant_id", tenantID.String()))

	return result, nil
}
