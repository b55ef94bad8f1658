package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	authHTTP "github.com/allisson/hrgate/internal/auth/http"
	apperrors "github.com/allisson/hrgate/internal/errors"
	gatewayDomain "github.com/allisson/hrgate/internal/gateway/domain"
	gatewayUseCase "github.com/allisson/hrgate/internal/gateway/usecase"
	"github.com/allisson/hrgate/internal/tenant/domain"
	"github.com/allisson/hrgate/internal/upstream"
)

// mockGatewayUseCase is a mock implementation of GatewayUseCase for testing.
type mockGatewayUseCase struct {
	mock.Mock
}

func (m *mockGatewayUseCase) rawResult(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockGatewayUseCase) ListLeaveTypes(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) SubmitLeave(
	ctx context.Context, user *authDomain.User, input *gatewayUseCase.LeaveRequestInput,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user, input))
}

func (m *mockGatewayUseCase) PendingLeavesCount(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) NextDayOff(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) ListPayslips(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) DownloadPayslip(
	ctx context.Context, user *authDomain.User, payslipID int64,
) (*upstream.Download, error) {
	args := m.Called(ctx, user, payslipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.Download), args.Error(1)
}

func (m *mockGatewayUseCase) SubmitExpense(
	ctx context.Context, user *authDomain.User, input *gatewayUseCase.ExpenseInput,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user, input))
}

func (m *mockGatewayUseCase) ListDocuments(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) UploadDocument(
	ctx context.Context, user *authDomain.User, input *gatewayUseCase.DocumentUploadInput,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user, input))
}

func (m *mockGatewayUseCase) DownloadDocument(
	ctx context.Context, user *authDomain.User, attachmentID int64,
) (*upstream.Download, error) {
	args := m.Called(ctx, user, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.Download), args.Error(1)
}

func (m *mockGatewayUseCase) DeleteDocument(
	ctx context.Context, user *authDomain.User, attachmentID int64,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user, attachmentID))
}

func (m *mockGatewayUseCase) AttendanceStatus(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) AttendanceCheckIn(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) AttendanceCheckOut(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func (m *mockGatewayUseCase) AttendanceTodayLog(
	ctx context.Context, user *authDomain.User,
) (json.RawMessage, error) {
	return m.rawResult(m.Called(ctx, user))
}

func setupTestHandler(t *testing.T) (*GatewayHandler, *mockGatewayUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mockUseCase := &mockGatewayUseCase{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewGatewayHandler(mockUseCase, logger), mockUseCase
}

func testUser() *authDomain.User {
	employeeID := int64(42)
	return &authDomain.User{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   uuid.Must(uuid.NewV7()),
		Email:      "user@example.com",
		IsActive:   true,
		EmployeeID: &employeeID,
	}
}

// createTestContext builds a gin context for an authenticated request. When
// user is nil, the request carries no identity.
func createTestContext(
	method, path string,
	body io.Reader,
	contentType string,
	user *authDomain.User,
) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != nil {
		req = req.WithContext(authHTTP.WithUser(req.Context(), user))
	}
	c.Request = req

	return c, recorder
}

func jsonBody(t *testing.T, payload any) io.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// multipartBody builds a multipart form with plain fields plus one file part.
func multipartBody(
	t *testing.T,
	fields map[string]string,
	fileField, fileName, fileContent string,
) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestGatewayHandler_ListLeaveTypesHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("ListLeaveTypes", mock.Anything, user).
			Return(json.RawMessage(`[{"id":1,"name":"Annual Leave"}]`), nil)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/leave-types", nil, "", user)
		handler.ListLeaveTypesHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Annual Leave"}]`, recorder.Body.String())
	})

	t.Run("Error_NoUserInContext", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/leave-types", nil, "", nil)
		handler.ListLeaveTypesHandler(c)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockUseCase.AssertNotCalled(t, "ListLeaveTypes")
	})

	t.Run("Error_UpstreamUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("ListLeaveTypes", mock.Anything, user).
			Return(nil, apperrors.ErrUpstreamUnavailable)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/leave-types", nil, "", user)
		handler.ListLeaveTypesHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestGatewayHandler_SubmitLeaveHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		expectedInput := &gatewayUseCase.LeaveRequestInput{
			LeaveTypeID: 3,
			FromDate:    "2024-01-10",
			ToDate:      "2024-01-12",
			Note:        "Family trip",
		}
		mockUseCase.On("SubmitLeave", mock.Anything, user, expectedInput).
			Return(json.RawMessage(`{"leave_id":99,"state":"confirm"}`), nil)

		body := jsonBody(t, map[string]any{
			"leave_type_id": 3,
			"from_date":     "2024-01-10",
			"to_date":       "2024-01-12",
			"note":          "Family trip",
		})
		c, recorder := createTestContext(http.MethodPost, "/api/v1/leaves", body, "application/json", user)
		handler.SubmitLeaveHandler(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.JSONEq(t, `{"leave_id":99,"state":"confirm"}`, recorder.Body.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidDate", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		body := jsonBody(t, map[string]any{
			"leave_type_id": 3,
			"from_date":     "10/01/2024",
			"to_date":       "2024-01-12",
		})
		c, recorder := createTestContext(http.MethodPost, "/api/v1/leaves", body, "application/json", user)
		handler.SubmitLeaveHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "validation_error")
		mockUseCase.AssertNotCalled(t, "SubmitLeave")
	})

	t.Run("Error_MissingLeaveType", func(t *testing.T) {
		handler, _ := setupTestHandler(t)
		user := testUser()

		body := jsonBody(t, map[string]any{
			"from_date": "2024-01-10",
			"to_date":   "2024-01-12",
		})
		c, recorder := createTestContext(http.MethodPost, "/api/v1/leaves", body, "application/json", user)
		handler.SubmitLeaveHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("Error_EmployeeNotLinked", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("SubmitLeave", mock.Anything, user, mock.Anything).
			Return(nil, gatewayDomain.ErrEmployeeNotLinked)

		body := jsonBody(t, map[string]any{
			"leave_type_id": 3,
			"from_date":     "2024-01-10",
			"to_date":       "2024-01-12",
		})
		c, recorder := createTestContext(http.MethodPost, "/api/v1/leaves", body, "application/json", user)
		handler.SubmitLeaveHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "not linked")
	})

	t.Run("Error_UpstreamConflictPassesThrough", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("SubmitLeave", mock.Anything, user, mock.Anything).
			Return(nil, &apperrors.UpstreamClientError{
				StatusCode: http.StatusConflict,
				Message:    "leave request overlaps an existing one",
			})

		body := jsonBody(t, map[string]any{
			"leave_type_id": 3,
			"from_date":     "2024-01-10",
			"to_date":       "2024-01-12",
		})
		c, recorder := createTestContext(http.MethodPost, "/api/v1/leaves", body, "application/json", user)
		handler.SubmitLeaveHandler(c)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "overlaps")
	})
}

func TestGatewayHandler_DownloadPayslipHandler(t *testing.T) {
	t.Run("Success_StreamsBodyAndHeaders", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		download := &upstream.Download{
			Body:               io.NopCloser(strings.NewReader("pdf bytes")),
			ContentType:        "application/pdf",
			ContentDisposition: `attachment; filename="payslip.pdf"`,
			ContentLength:      9,
		}
		mockUseCase.On("DownloadPayslip", mock.Anything, user, int64(7)).Return(download, nil)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/payslips/7/download", nil, "", user)
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		handler.DownloadPayslipHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "pdf bytes", recorder.Body.String())
		assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="payslip.pdf"`, recorder.Header().Get("Content-Disposition"))
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		c, recorder := createTestContext(http.MethodGet, "/api/v1/payslips/abc/download", nil, "", user)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		handler.DownloadPayslipHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockUseCase.AssertNotCalled(t, "DownloadPayslip")
	})

	t.Run("Error_UpstreamTimeout", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("DownloadPayslip", mock.Anything, user, int64(7)).
			Return(nil, apperrors.ErrUpstreamTimeout)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/payslips/7/download", nil, "", user)
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		handler.DownloadPayslipHandler(c)

		assert.Equal(t, http.StatusGatewayTimeout, recorder.Code)
	})
}

func TestGatewayHandler_SubmitExpenseHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("SubmitExpense", mock.Anything, user,
			mock.MatchedBy(func(input *gatewayUseCase.ExpenseInput) bool {
				return input.Description == "Taxi fare" &&
					input.Amount == "25.50" &&
					input.Date == "2024-02-01" &&
					input.Receipt.FieldName == "receipt" &&
					input.Receipt.FileName == "receipt.pdf"
			})).
			Return(json.RawMessage(`{"expense_id":12}`), nil)

		body, contentType := multipartBody(t, map[string]string{
			"description": "Taxi fare",
			"amount":      "25.50",
			"date":        "2024-02-01",
		}, "receipt", "receipt.pdf", "pdf bytes")
		c, recorder := createTestContext(http.MethodPost, "/api/v1/expenses", body, contentType, user)
		handler.SubmitExpenseHandler(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.JSONEq(t, `{"expense_id":12}`, recorder.Body.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingReceipt", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		body, contentType := multipartBody(t, map[string]string{
			"description": "Taxi fare",
			"amount":      "25.50",
			"date":        "2024-02-01",
		}, "", "", "")
		c, recorder := createTestContext(http.MethodPost, "/api/v1/expenses", body, contentType, user)
		handler.SubmitExpenseHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "receipt")
		mockUseCase.AssertNotCalled(t, "SubmitExpense")
	})

	t.Run("Error_InvalidAmount", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		body, contentType := multipartBody(t, map[string]string{
			"description": "Taxi fare",
			"amount":      "not-a-number",
			"date":        "2024-02-01",
		}, "receipt", "receipt.pdf", "pdf bytes")
		c, recorder := createTestContext(http.MethodPost, "/api/v1/expenses", body, contentType, user)
		handler.SubmitExpenseHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockUseCase.AssertNotCalled(t, "SubmitExpense")
	})
}

func TestGatewayHandler_UploadDocumentHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("UploadDocument", mock.Anything, user,
			mock.MatchedBy(func(input *gatewayUseCase.DocumentUploadInput) bool {
				return input.DocumentType == "certificate" &&
					input.File.FieldName == "file" &&
					input.File.FileName == "certificate.pdf"
			})).
			Return(json.RawMessage(`{"attachment_id":55}`), nil)

		body, contentType := multipartBody(t, map[string]string{
			"document_type": "certificate",
		}, "file", "certificate.pdf", "pdf bytes")
		c, recorder := createTestContext(http.MethodPost, "/api/v1/documents", body, contentType, user)
		handler.UploadDocumentHandler(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.JSONEq(t, `{"attachment_id":55}`, recorder.Body.String())
	})

	t.Run("Error_MissingDocumentType", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		body, contentType := multipartBody(t, map[string]string{}, "file", "certificate.pdf", "pdf bytes")
		c, recorder := createTestContext(http.MethodPost, "/api/v1/documents", body, contentType, user)
		handler.UploadDocumentHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockUseCase.AssertNotCalled(t, "UploadDocument")
	})
}

func TestGatewayHandler_DeleteDocumentHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("DeleteDocument", mock.Anything, user, int64(55)).
			Return(json.RawMessage(`{"status":"deleted"}`), nil)

		c, recorder := createTestContext(http.MethodDelete, "/api/v1/documents/55", nil, "", user)
		c.Params = gin.Params{{Key: "id", Value: "55"}}
		handler.DeleteDocumentHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"deleted"}`, recorder.Body.String())
	})

	t.Run("Error_UpstreamNotFoundPassesThrough", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("DeleteDocument", mock.Anything, user, int64(55)).
			Return(nil, &apperrors.UpstreamClientError{
				StatusCode: http.StatusNotFound,
				Message:    "attachment not found",
			})

		c, recorder := createTestContext(http.MethodDelete, "/api/v1/documents/55", nil, "", user)
		c.Params = gin.Params{{Key: "id", Value: "55"}}
		handler.DeleteDocumentHandler(c)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestGatewayHandler_AttendanceHandlers(t *testing.T) {
	t.Run("StatusSuccess", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("AttendanceStatus", mock.Anything, user).
			Return(json.RawMessage(`{"status":"checked_in","since":"09:02"}`), nil)

		c, recorder := createTestContext(http.MethodGet, "/api/v1/attendance/status", nil, "", user)
		handler.AttendanceStatusHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"checked_in","since":"09:02"}`, recorder.Body.String())
	})

	t.Run("CheckInSuccess", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("AttendanceCheckIn", mock.Anything, user).
			Return(json.RawMessage(`{"status":"checked_in"}`), nil)

		c, recorder := createTestContext(http.MethodPost, "/api/v1/attendance/check-in", nil, "", user)
		handler.AttendanceCheckInHandler(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("CheckOutEmployeeNotLinked", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		user := testUser()

		mockUseCase.On("AttendanceCheckOut", mock.Anything, user).
			Return(nil, gatewayDomain.ErrEmployeeNotLinked)

		c, recorder := createTestContext(http.MethodPost, "/api/v1/attendance/check-out", nil, "", user)
		handler.AttendanceCheckOutHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

// TestGatewayHandler_UpstreamUnreachable drives the real use case and upstream
// client against a dead address so transport failures surface as 503.
func TestGatewayHandler_UpstreamUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	credentials := &mockCredentialProvider{}
	user := testUser()
	credentials.On("GetDecryptedCredential", mock.Anything, user.TenantID).
		Return(&domain.DecryptedCredential{
			BaseURL:   deadURL,
			AccountID: 7,
			APIKey:    "api-key",
		}, nil)

	client := upstream.NewClient(2*time.Second, logger)
	useCase := gatewayUseCase.NewGatewayUseCase(credentials, client, logger)
	handler := NewGatewayHandler(useCase, logger)

	c, recorder := createTestContext(http.MethodGet, "/api/v1/leave-types", nil, "", user)
	handler.ListLeaveTypesHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

// mockCredentialProvider is a mock implementation of the credential provider
// used by the unreachable-backend test.
type mockCredentialProvider struct {
	mock.Mock
}

func (m *mockCredentialProvider) GetDecryptedCredential(
	ctx context.Context,
	tenantID uuid.UUID,
) (*domain.DecryptedCredential, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecryptedCredential), args.Error(1)
}
