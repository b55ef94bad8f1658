// Package repository implements data persistence for service tokens and the
// audit log.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16)
// types. Token scopes are stored as comma-separated resource kinds.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// PostgreSQLServiceTokenRepository implements ServiceToken persistence for PostgreSQL.
type PostgreSQLServiceTokenRepository struct {
	db *sql.DB
}

// Create inserts a new ServiceToken into the PostgreSQL database.
func (p *PostgreSQLServiceTokenRepository) Create(
	ctx context.Context,
	token *domain.ServiceToken,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO service_tokens (id, name, account_id, token_hash, scope, is_active,
			  last_used_at, note, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Name,
		token.AccountID,
		token.TokenHash,
		encodeScope(token.Scope),
		token.IsActive,
		token.LastUsedAt,
		token.Note,
		token.CreatedAt,
		token.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create service token")
	}
	return nil
}

// Get retrieves a ServiceToken by ID from the PostgreSQL database.
func (p *PostgreSQLServiceTokenRepository) Get(
	ctx context.Context,
	tokenID uuid.UUID,
) (*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens WHERE id = $1`

	return scanServiceToken(querier.QueryRowContext(ctx, query, tokenID))
}

// GetByTokenHash retrieves a ServiceToken by its hashed value from the PostgreSQL database.
func (p *PostgreSQLServiceTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens WHERE token_hash = $1`

	return scanServiceToken(querier.QueryRowContext(ctx, query, tokenHash))
}

// List returns service tokens ordered by creation time, newest first.
func (p *PostgreSQLServiceTokenRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	var tokens []*domain.ServiceToken
	for rows.Next() {
		token, err := scanServiceToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list service tokens")
	}
	return tokens, nil
}

// UpdateTokenHash replaces the stored token hash. The previous value stops
// authenticating immediately.
func (p *PostgreSQLServiceTokenRepository) UpdateTokenHash(
	ctx context.Context,
	tokenID uuid.UUID,
	tokenHash string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE service_tokens SET token_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, tokenHash, time.Now().UTC(), tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update service token hash")
	}
	return requireServiceTokenRow(result, "failed to update service token hash")
}

// SetActive enables or disables a service token.
func (p *PostgreSQLServiceTokenRepository) SetActive(
	ctx context.Context,
	tokenID uuid.UUID,
	active bool,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE service_tokens SET is_active = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, active, time.Now().UTC(), tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to set service token active state")
	}
	return requireServiceTokenRow(result, "failed to set service token active state")
}

// TouchLastUsed updates the last-used timestamp of a service token.
func (p *PostgreSQLServiceTokenRepository) TouchLastUsed(
	ctx context.Context,
	tokenID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE service_tokens SET last_used_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, usedAt, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch service token last-used timestamp")
	}
	return nil
}

// NewPostgreSQLServiceTokenRepository creates a new PostgreSQL ServiceToken repository.
func NewPostgreSQLServiceTokenRepository(db *sql.DB) *PostgreSQLServiceTokenRepository {
	return &PostgreSQLServiceTokenRepository{db: db}
}

const serviceTokenSelectColumns = `SELECT id, name, account_id, token_hash, scope, is_active,
	last_used_at, note, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning between drivers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanServiceToken(row rowScanner) (*domain.ServiceToken, error) {
	var token domain.ServiceToken
	var scope string

	err := row.Scan(
		&token.ID,
		&token.Name,
		&token.AccountID,
		&token.TokenHash,
		&scope,
		&token.IsActive,
		&token.LastUsedAt,
		&token.Note,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get service token")
	}

	token.Scope = decodeScope(scope)
	return &token, nil
}

func requireServiceTokenRow(result sql.Result, message string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if rows == 0 {
		return domain.ErrServiceTokenNotFound
	}
	return nil
}

// encodeScope serializes a scope set as comma-separated resource kinds. An
// empty scope serializes to the empty string.
func encodeScope(scope []domain.ResourceKind) string {
	if len(scope) == 0 {
		return ""
	}
	kinds := make([]string, len(scope))
	for i, kind := range scope {
		kinds[i] = string(kind)
	}
	return strings.Join(kinds, ",")
}

func decodeScope(encoded string) []domain.ResourceKind {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	scope := make([]domain.ResourceKind, len(parts))
	for i, part := range parts {
		scope[i] = domain.ResourceKind(part)
	}
	return scope
}
