// Package repository implements data persistence for portal users.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
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

// PostgreSQLUserRepository implements User persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new User into the PostgreSQL database.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, tenant_id, email, full_name, hashed_password, is_active, is_admin,
			  employee_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.TenantID,
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

// Get retrieves a User by ID from the PostgreSQL database.
func (p *PostgreSQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := userSelectColumns + ` FROM users WHERE id = $1`

	return scanUser(querier.QueryRowContext(ctx, query, userID))
}

// GetByEmail retrieves a User by email from the PostgreSQL database.
func (p *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := userSelectColumns + ` FROM users WHERE email = $1`

	return scanUser(querier.QueryRowContext(ctx, query, email))
}

// SetResetToken stores the hashed password-reset token and its expiry for a user.
// Issuing a new token replaces any previous one.
func (p *PostgreSQLUserRepository) SetResetToken(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET reset_token_hash = $1,
			  	  reset_token_expires_at = $2,
				  updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, tokenHash, expiresAt, time.Now().UTC(), userID)
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
func (p *PostgreSQLUserRepository) ConsumeResetToken(
	ctx context.Context,
	tokenHash string,
	hashedPassword string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET hashed_password = $1,
			  	  reset_token_hash = NULL,
				  reset_token_expires_at = NULL,
				  updated_at = $2
			  WHERE reset_token_hash = $3
			    AND reset_token_expires_at > $4
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
func (p *PostgreSQLUserRepository) UpdateEmployeeID(
	ctx context.Context,
	email string,
	employeeID int64,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET employee_id = NULLIF($1, 0),
				  updated_at = $2
			  WHERE email = $3`

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

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

const userSelectColumns = `SELECT id, tenant_id, email, full_name, hashed_password, is_active, is_admin,
	employee_id, reset_token_hash, reset_token_expires_at, created_at, updated_at`

// rowScanner abstracts *sql.Row for shared scanning between drivers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*authDomain.User, error) {
	var user authDomain.User

	err := row.Scan(
		&user.ID,
		&user.TenantID,
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

	return &user, nil
}
