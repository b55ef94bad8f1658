package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// MySQLUserRepository implements User persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new User into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, tenant_id, email, full_name, hashed_password, is_active, is_admin,
			  employee_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}
	tenantID, err := user.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		user.Email,
		user.FullName,
		user.HashedPassword,
		user.IsActive,
		user.IsAdmin,
		user.EmployeeID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Get retrieves a User by ID from the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := userSelectColumns + ` FROM users WHERE id = ?`

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	return scanMySQLUser(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a User by email from the MySQL database.
func (m *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := userSelectColumns + ` FROM users WHERE email = ?`

	return scanMySQLUser(querier.QueryRowContext(ctx, query, email))
}

// SetResetToken stores the hashed password-reset token and its expiry for a user.
// Issuing a new token replaces any previous one.
func (m *MySQLUserRepository) SetResetToken(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE users
			  SET reset_token_hash = ?,
			  	  reset_token_expires_at = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	result, err := querier.ExecContext(ctx, query, tokenHash, expiresAt, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set reset token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to set reset token")
	}
	if rows == 0 {
		return authDomain.ErrUserNotFound
	}
	return nil
}

// ConsumeResetToken atomically sets a new password and clears the reset token
// for the active user holding the given unexpired token hash. A single UPDATE
// guarantees the token cannot be used twice even under concurrent requests.
// Returns false when no matching token exists.
func (m *MySQLUserRepository) ConsumeResetToken(
	ctx context.Context,
	tokenHash string,
	hashedPassword string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE users
			  SET hashed_password = ?,
			  	  reset_token_hash = NULL,
				  reset_token_expires_at = NULL,
				  updated_at = ?
			  WHERE reset_token_hash = ?
			    AND reset_token_expires_at > ?
				AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, hashedPassword, now, tokenHash, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume reset token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume reset token")
	}
	return rows > 0, nil
}

// UpdateEmployeeID binds the user identified by email to an HR employee
// record. A zero employeeID clears the binding.
func (m *MySQLUserRepository) UpdateEmployeeID(
	ctx context.Context,
	email string,
	employeeID int64,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE users
			  SET employee_id = NULLIF(?, 0),
				  updated_at = ?
			  WHERE email = ?`

	result, err := querier.ExecContext(ctx, query, employeeID, time.Now().UTC(), email)
	if err != nil {
		return apperrors.Wrap(err, "failed to update employee id")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update employee id")
	}
	if rows == 0 {
		return authDomain.ErrUserNotFound
	}
	return nil
}

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func scanMySQLUser(row rowScanner) (*authDomain.User, error) {
	var user authDomain.User
	var idBytes, tenantIDBytes []byte

	err := row.Scan(
		&idBytes,
		&tenantIDBytes,
		&user.Email,
		&user.FullName,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsAdmin,
		&user.EmployeeID,
		&user.ResetTokenHash,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := user.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &user, nil
}
