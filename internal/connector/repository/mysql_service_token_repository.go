package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// MySQLServiceTokenRepository implements ServiceToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLServiceTokenRepository struct {
	db *sql.DB
}

// Create inserts a new ServiceToken into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLServiceTokenRepository) Create(
	ctx context.Context,
	token *domain.ServiceToken,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO service_tokens (id, name, account_id, token_hash, scope, is_active,
			  last_used_at, note, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service token id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Get retrieves a ServiceToken by ID from the MySQL database.
func (m *MySQLServiceTokenRepository) Get(
	ctx context.Context,
	tokenID uuid.UUID,
) (*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens WHERE id = ?`

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal service token id")
	}

	return scanMySQLServiceToken(querier.QueryRowContext(ctx, query, id))
}

// GetByTokenHash retrieves a ServiceToken by its hashed value from the MySQL database.
func (m *MySQLServiceTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens WHERE token_hash = ?`

	return scanMySQLServiceToken(querier.QueryRowContext(ctx, query, tokenHash))
}

// List returns service tokens ordered by creation time, newest first.
func (m *MySQLServiceTokenRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.ServiceToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := serviceTokenSelectColumns + ` FROM service_tokens
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	var tokens []*domain.ServiceToken
	for rows.Next() {
		token, err := scanMySQLServiceToken(rows)
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
func (m *MySQLServiceTokenRepository) UpdateTokenHash(
	ctx context.Context,
	tokenID uuid.UUID,
	tokenHash string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE service_tokens SET token_hash = ?, updated_at = ? WHERE id = ?`

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service token id")
	}

	result, err := querier.ExecContext(ctx, query, tokenHash, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update service token hash")
	}
	return requireServiceTokenRow(result, "failed to update service token hash")
}

// SetActive enables or disables a service token.
func (m *MySQLServiceTokenRepository) SetActive(
	ctx context.Context,
	tokenID uuid.UUID,
	active bool,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE service_tokens SET is_active = ?, updated_at = ? WHERE id = ?`

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service token id")
	}

	result, err := querier.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set service token active state")
	}
	return requireServiceTokenRow(result, "failed to set service token active state")
}

// TouchLastUsed updates the last-used timestamp of a service token.
func (m *MySQLServiceTokenRepository) TouchLastUsed(
	ctx context.Context,
	tokenID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE service_tokens SET last_used_at = ? WHERE id = ?`

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service token id")
	}

	_, err = querier.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch service token last-used timestamp")
	}
	return nil
}

// NewMySQLServiceTokenRepository creates a new MySQL ServiceToken repository.
func NewMySQLServiceTokenRepository(db *sql.DB) *MySQLServiceTokenRepository {
	return &MySQLServiceTokenRepository{db: db}
}

func scanMySQLServiceToken(row rowScanner) (*domain.ServiceToken, error) {
	var token domain.ServiceToken
	var idBytes []byte
	var scope string

	err := row.Scan(
		&idBytes,
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

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal service token id")
	}

	token.Scope = decodeScope(scope)
	return &token, nil
}
