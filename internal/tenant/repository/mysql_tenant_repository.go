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

// MySQLTenantRepository implements Tenant persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLTenantRepository struct {
	db *sql.DB
}

// NewMySQLTenantRepository creates a new MySQLTenantRepository.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

// Create inserts a new Tenant into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenants (id, name, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenant.Name,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Get retrieves a Tenant by ID from the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLTenantRepository) Get(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, is_active, created_at, updated_at
			  FROM tenants WHERE id = ?`

	id, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var tenant tenantDomain.Tenant
	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&tenant.Name,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant")
	}

	if err := tenant.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &tenant, nil
}
