package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
)

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQLCredentialRepository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// GetByTenantID retrieves a tenant's Credential from the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) GetByTenantID(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, base_url, account_id, encrypted_api_key, created_at, updated_at
			  FROM tenant_credentials WHERE tenant_id = $1`

	var credential tenantDomain.Credential
	err := querier.QueryRowContext(ctx, query, tenantID).Scan(
		&credential.ID,
		&credential.TenantID,
		&credential.BaseURL,
		&credential.AccountID,
		&credential.EncryptedAPIKey,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenantDomain.ErrCredentialNotConfigured
		}
		return nil, apperrors.Wrap(err, "failed to get tenant credential")
	}

	return &credential, nil
}

// Upsert replaces a tenant's Credential in a single write. The full row is
// overwritten; there is no partial update.
func (p *PostgreSQLCredentialRepository) Upsert(
	ctx context.Context,
	credential *tenantDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenant_credentials (id, tenant_id, base_url, account_id, encrypted_api_key,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (tenant_id) DO UPDATE SET
			  base_url = EXCLUDED.base_url,
			  account_id = EXCLUDED.account_id,
			  encrypted_api_key = EXCLUDED.encrypted_api_key,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.TenantID,
		credential.BaseURL,
		credential.AccountID,
		credential.EncryptedAPIKey,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert tenant credential")
	}
	return nil
}
