package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// PostgreSQLAuditLogRepository implements append-only AuditLog persistence
// for PostgreSQL. Entries are inserted, listed and expired, never updated.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog entry into the PostgreSQL database.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs (id, created_at, account_id, service_token_id, endpoint,
			  method, request_ip, status_code, message, duration_ms)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.CreatedAt,
		entry.AccountID,
		entry.ServiceTokenID,
		entry.Endpoint,
		entry.Method,
		entry.RequestIP,
		entry.StatusCode,
		entry.Message,
		entry.DurationMS,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log entry")
	}
	return nil
}

// List returns audit entries ordered by creation time, newest first.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, created_at, account_id, service_token_id, endpoint, method, request_ip,
			  status_code, message, duration_ms
			  FROM audit_logs
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*domain.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	return entries, nil
}

// DeleteOlderThan removes audit entries created before the given time and
// returns the number of removed entries.
func (p *PostgreSQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM audit_logs WHERE created_at < $1`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit log entries")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit log entries")
	}
	return rows, nil
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL AuditLog repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

func scanAuditLog(row rowScanner) (*domain.AuditLog, error) {
	var entry domain.AuditLog

	err := row.Scan(
		&entry.ID,
		&entry.CreatedAt,
		&entry.AccountID,
		&entry.ServiceTokenID,
		&entry.Endpoint,
		&entry.Method,
		&entry.RequestIP,
		&entry.StatusCode,
		&entry.Message,
		&entry.DurationMS,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan audit log entry")
	}

	return &entry, nil
}
