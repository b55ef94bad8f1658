package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/hrgate/internal/connector/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func fixtureServiceToken() *domain.ServiceToken {
	now := time.Now().UTC()
	return &domain.ServiceToken{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "payroll-sync",
		AccountID: 7,
		TokenHash: "token-hash",
		Scope:     []domain.ResourceKind{domain.ResourceKindLeave, domain.ResourceKindPayslip},
		IsActive:  true,
		Note:      "payroll integration",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func fixtureAuditLog() *domain.AuditLog {
	accountID := int64(7)
	serviceTokenID := uuid.Must(uuid.NewV7())
	return &domain.AuditLog{
		ID:             uuid.Must(uuid.NewV7()),
		CreatedAt:      time.Now().UTC(),
		AccountID:      &accountID,
		ServiceTokenID: &serviceTokenID,
		Endpoint:       "/connector/api/v1/employees/link",
		Method:         "POST",
		RequestIP:      "203.0.113.9",
		StatusCode:     200,
		Message:        "ok",
		DurationMS:     12,
	}
}

func TestPostgreSQLServiceTokenRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLServiceTokenRepository(db)
	token := fixtureServiceToken()

	mock.ExpectExec("INSERT INTO service_tokens").
		WithArgs(
			token.ID, token.Name, token.AccountID, token.TokenHash, "hr.leave,hr.payslip",
			token.IsActive, token.LastUsedAt, token.Note, token.CreatedAt, token.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), token)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLServiceTokenRepository_GetByTokenHash(t *testing.T) {
	t.Run("Success_ScopeDecoded", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLServiceTokenRepository(db)
		token := fixtureServiceToken()

		rows := sqlmock.NewRows([]string{
			"id", "name", "account_id", "token_hash", "scope", "is_active",
			"last_used_at", "note", "created_at", "updated_at",
		}).AddRow(
			token.ID, token.Name, token.AccountID, token.TokenHash, "hr.leave,hr.payslip",
			token.IsActive, nil, token.Note, token.CreatedAt, token.UpdatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM service_tokens WHERE token_hash =").
			WithArgs(token.TokenHash).
			WillReturnRows(rows)

		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)
		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.Equal(t, []domain.ResourceKind{
			domain.ResourceKindLeave, domain.ResourceKindPayslip,
		}, got.Scope)
	})

	t.Run("Success_EmptyScope", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLServiceTokenRepository(db)
		token := fixtureServiceToken()

		rows := sqlmock.NewRows([]string{
			"id", "name", "account_id", "token_hash", "scope", "is_active",
			"last_used_at", "note", "created_at", "updated_at",
		}).AddRow(
			token.ID, token.Name, token.AccountID, token.TokenHash, "",
			token.IsActive, nil, token.Note, token.CreatedAt, token.UpdatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM service_tokens WHERE token_hash =").
			WithArgs(token.TokenHash).
			WillReturnRows(rows)

		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)
		require.NoError(t, err)
		assert.Empty(t, got.Scope)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLServiceTokenRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM service_tokens WHERE token_hash =").
			WithArgs("unknown-hash").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByTokenHash(context.Background(), "unknown-hash")
		assert.ErrorIs(t, err, domain.ErrServiceTokenNotFound)
	})
}

func TestPostgreSQLServiceTokenRepository_UpdateTokenHash(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLServiceTokenRepository(db)
		tokenID := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE service_tokens SET token_hash =").
			WithArgs("new-hash", sqlmock.AnyArg(), tokenID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateTokenHash(context.Background(), tokenID, "new-hash")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLServiceTokenRepository(db)
		tokenID := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE service_tokens SET token_hash =").
			WithArgs("new-hash", sqlmock.AnyArg(), tokenID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTokenHash(context.Background(), tokenID, "new-hash")
		assert.ErrorIs(t, err, domain.ErrServiceTokenNotFound)
	})
}

func TestPostgreSQLServiceTokenRepository_TouchLastUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLServiceTokenRepository(db)
	tokenID := uuid.Must(uuid.NewV7())
	usedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE service_tokens SET last_used_at =").
		WithArgs(usedAt, tokenID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.TouchLastUsed(context.Background(), tokenID, usedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditLogRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditLogRepository(db)
	entry := fixtureAuditLog()

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(
			entry.ID, entry.CreatedAt, entry.AccountID, entry.ServiceTokenID, entry.Endpoint,
			entry.Method, entry.RequestIP, entry.StatusCode, entry.Message, entry.DurationMS,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditLogRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditLogRepository(db)
	entry := fixtureAuditLog()

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "account_id", "service_token_id", "endpoint", "method",
		"request_ip", "status_code", "message", "duration_ms",
	}).AddRow(
		entry.ID, entry.CreatedAt, entry.AccountID, entry.ServiceTokenID, entry.Endpoint,
		entry.Method, entry.RequestIP, entry.StatusCode, entry.Message, entry.DurationMS,
	)

	mock.ExpectQuery("SELECT (.+) FROM audit_logs").
		WithArgs(0, 50).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Endpoint, entries[0].Endpoint)
	assert.Equal(t, entry.StatusCode, entries[0].StatusCode)
}

func TestPostgreSQLAuditLogRepository_DeleteOlderThan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditLogRepository(db)
	before := time.Now().UTC().Add(-30 * 24 * time.Hour)

	mock.ExpectExec("DELETE FROM audit_logs WHERE created_at <").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 42))

	removed, err := repo.DeleteOlderThan(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(42), removed)
}
