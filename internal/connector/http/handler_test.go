package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	"github.com/allisson/hrgate/internal/connector/domain"
)

// mockEmployeeLinkUseCase is a mock implementation of EmployeeLinkUseCase for testing.
type mockEmployeeLinkUseCase struct {
	mock.Mock
}

func (m *mockEmployeeLinkUseCase) LinkEmployee(
	ctx context.Context,
	email string,
	employeeID int64,
) error {
	args := m.Called(ctx, email, employeeID)
	return args.Error(0)
}

// mockAuditLogUseCase is a mock implementation of AuditLogUseCase for testing.
type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Record(ctx context.Context, entry *domain.AuditLog) {
	m.Called(ctx, entry)
}

func (m *mockAuditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditLog), args.Error(1)
}

func (m *mockAuditLogUseCase) CleanOlderThan(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, recorder
}

func TestConnectorHandler_PingHandler(t *testing.T) {
	handler := NewConnectorHandler(&mockEmployeeLinkUseCase{}, discardLogger())

	c, recorder := createTestContext(http.MethodGet, "/connector/api/v1/ping", nil)
	handler.PingHandler(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestConnectorHandler_LinkEmployeeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		linkUseCase := &mockEmployeeLinkUseCase{}
		handler := NewConnectorHandler(linkUseCase, discardLogger())

		linkUseCase.On("LinkEmployee", mock.Anything, "user@example.com", int64(42)).Return(nil)

		c, recorder := createTestContext(http.MethodPost, "/connector/api/v1/employees/link",
			map[string]any{"email": "user@example.com", "employee_id": 42})
		handler.LinkEmployeeHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		linkUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		linkUseCase := &mockEmployeeLinkUseCase{}
		handler := NewConnectorHandler(linkUseCase, discardLogger())

		c, recorder := createTestContext(http.MethodPost, "/connector/api/v1/employees/link",
			map[string]any{"email": "not-an-email", "employee_id": 42})
		handler.LinkEmployeeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "validation_error")
		linkUseCase.AssertNotCalled(t, "LinkEmployee")
	})

	t.Run("Error_UnknownUser", func(t *testing.T) {
		linkUseCase := &mockEmployeeLinkUseCase{}
		handler := NewConnectorHandler(linkUseCase, discardLogger())

		linkUseCase.On("LinkEmployee", mock.Anything, "ghost@example.com", int64(42)).
			Return(authDomain.ErrUserNotFound)

		c, recorder := createTestContext(http.MethodPost, "/connector/api/v1/employees/link",
			map[string]any{"email": "ghost@example.com", "employee_id": 42})
		handler.LinkEmployeeHandler(c)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestAuditLogHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		auditUseCase := &mockAuditLogUseCase{}
		handler := NewAuditLogHandler(auditUseCase, discardLogger())

		accountID := int64(7)
		serviceTokenID := uuid.Must(uuid.NewV7())
		entries := []*domain.AuditLog{
			{
				ID:             uuid.Must(uuid.NewV7()),
				CreatedAt:      time.Now().UTC(),
				AccountID:      &accountID,
				ServiceTokenID: &serviceTokenID,
				Endpoint:       "/connector/api/v1/ping",
				Method:         "GET",
				RequestIP:      "203.0.113.9",
				StatusCode:     200,
				Message:        "ok",
				DurationMS:     3,
			},
		}
		auditUseCase.On("List", mock.Anything, 0, 50).Return(entries, nil)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/admin/audit-logs", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			AuditLogs []map[string]any `json:"audit_logs"`
			Offset    int              `json:"offset"`
			Limit     int              `json:"limit"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.AuditLogs, 1)
		assert.Equal(t, "/connector/api/v1/ping", response.AuditLogs[0]["endpoint"])
		assert.Equal(t, 50, response.Limit)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		auditUseCase := &mockAuditLogUseCase{}
		handler := NewAuditLogHandler(auditUseCase, discardLogger())

		c, recorder := createTestContext(http.MethodGet, "/api/v1/admin/audit-logs?limit=500", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		auditUseCase.AssertNotCalled(t, "List")
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		auditUseCase := &mockAuditLogUseCase{}
		handler := NewAuditLogHandler(auditUseCase, discardLogger())

		auditUseCase.On("List", mock.Anything, 0, 50).Return(nil, assert.AnError)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/admin/audit-logs", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}
