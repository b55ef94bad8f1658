package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/database"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// MySQLAuditLogRepository implements append-only AuditLog persistence for
// MySQL. Uses BINARY(16) for UUID storage.
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog entry into the MySQL database.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_logs (id, created_at, account_id, service_token_id, endpoint,
			  method, request_ip, status_code, message, duration_ms)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	var serviceTokenID []byte
	if entry.ServiceTokenID != nil {
		serviceTokenID, err = entry.ServiceTokenID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal service token id")
		}
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entry.CreatedAt,
		entry.AccountID,
		serviceTokenID,
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
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, created_at, account_id, service_token_id, endpoint, method, request_ip,
			  status_code, message, duration_ms
			  FROM audit_logs
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*domain.AuditLog
	for rows.Next() {
		entry, err := scanMySQLAuditLog(rows)
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
func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM audit_logs WHERE created_at < ?`

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

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

func scanMySQLAuditLog(row rowScanner) (*domain.AuditLog, error) {
	var entry domain.AuditLog
	var idBytes, serviceTokenIDBytes []byte

	err := row.Scan(
		&idBytes,
		&entry.CreatedAt,
		&entry.AccountID,
		&serviceTokenIDBytes,
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

	if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
	}
	if serviceTokenIDBytes != nil {
		var serviceTokenID uuid.UUID
		if err := serviceTokenID.UnmarshalBinary(serviceTokenIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal service token id")
		}
		entry.ServiceTokenID = &serviceTokenID
	}

	return &entry, nil
}
