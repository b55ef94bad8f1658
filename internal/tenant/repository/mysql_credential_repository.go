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

// MySQLCredentialRepository implements Credential persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQLCredentialRepository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// GetByTenantID retrieves a tenant's Credential from the MySQL database.
func (m *MySQLCredentialRepository) GetByTenantID(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, base_url, account_id, encrypted_api_key, created_at, updated_at
			  FROM tenant_credentials WHERE tenant_id = ?`

	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var credential tenantDomain.Credential
	var idBytes, rowTenantIDBytes []byte
	err = querier.QueryRowContext(ctx, query, tenantIDBytes).Scan(
		&idBytes,
		&rowTenantIDBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}
	if err := credential.TenantID.UnmarshalBinary(rowTenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &credential, nil
}

// Upsert replaces a tenant's Credential in a single write. The full row is
// overwritten; there is no partial update.
func (m *MySQLCredentialRepository) Upsert(
	ctx context.Context,
	credential *tenantDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenant_credentials (id, tenant_id, base_url, account_id, encrypted_api_key,
			  created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  base_url = VALUES(base_url),
			  account_id = VALUES(account_id),
			  encrypted_api_key = VALUES(encrypted_api_key),
			  updated_at = VALUES(updated_at)`

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}
	tenantID, err := credential.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
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
