package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	apperrors "github.com/allisson/hrgate/internal/errors"
	gatewayDomain "github.com/allisson/hrgate/internal/gateway/domain"
	"github.com/allisson/hrgate/internal/upstream"
)

// emptyJSONList is the graceful fallback for list widgets when the user has
// no HR mapping or the backend is unreachable.
var emptyJSONList = json.RawMessage(`[]`)

// gatewayUseCase implements GatewayUseCase.
type gatewayUseCase struct {
	credentials CredentialProvider
	client      UpstreamClient
	logger      *slog.Logger
}

// NewGatewayUseCase creates a new gateway use case with required dependencies.
func NewGatewayUseCase(
	credentials CredentialProvider,
	client UpstreamClient,
	logger *slog.Logger,
) GatewayUseCase {
	return &gatewayUseCase{
		credentials: credentials,
		client:      client,
		logger:      logger,
	}
}

// target resolves the user's tenant credential and decrypts the API key for
// a single outbound call. The plaintext never leaves this call stack.
func (u *gatewayUseCase) target(ctx context.Context, user *authDomain.User) (upstream.Target, error) {
	decrypted, err := u.credentials.GetDecryptedCredential(ctx, user.TenantID)
	if err != nil {
		return upstream.Target{}, err
	}

	return upstream.Target{
		BaseURL: decrypted.BaseURL,
		APIKey:  decrypted.APIKey,
	}, nil
}

// requireEmployeeID returns the user's HR employee mapping or
// ErrEmployeeNotLinked for employee-bound operations.
func requireEmployeeID(user *authDomain.User) (int64, error) {
	if user.EmployeeID == nil || *user.EmployeeID == 0 {
		return 0, gatewayDomain.ErrEmployeeNotLinked
	}
	return *user.EmployeeID, nil
}

// employeeIDOrZero returns the user's HR employee mapping, or zero when the
// user is not linked. Used by widgets that degrade instead of failing.
func employeeIDOrZero(user *authDomain.User) int64 {
	if user.EmployeeID == nil {
		return 0
	}
	return *user.EmployeeID
}

// ListLeaveTypes returns the leave types configured in the HR backend.
func (u *gatewayUseCase) ListLeaveTypes(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	return u.client.CallJSON(ctx, target, http.MethodGet, "/ess/api/leave-types", nil)
}

// SubmitLeave submits a leave request on behalf of the user's HR employee.
func (u *gatewayUseCase) SubmitLeave(
	ctx context.Context,
	user *authDomain.User,
	input *LeaveRequestInput,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return nil, err
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"employee_id":   employeeID,
		"leave_type_id": input.LeaveTypeID,
		"from_date":     input.FromDate,
		"to_date":       input.ToDate,
		"note":          input.Note,
	}

	return u.client.CallJSON(ctx, target, http.MethodPost, "/ess/api/leave", payload)
}

// PendingLeavesCount returns the user's pending leave count. The dashboard
// widget degrades to zero when the user is not linked or the backend fails.
func (u *gatewayUseCase) PendingLeavesCount(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	fallback := json.RawMessage(fmt.Sprintf(
		`{"employee_id":%d,"pending_leave_count":0}`, employeeIDOrZero(user)))

	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return fallback, nil
	}

	target, err := u.target(ctx, user)
	if err != nil {
		u.logger.Warn("pending leaves widget falling back to zero",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fallback, nil
	}

	endpoint := fmt.Sprintf("/ess/api/leaves/pending-count/%d", employeeID)
	result, err := u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
	if err != nil {
		u.logger.Warn("pending leaves widget falling back to zero",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fallback, nil
	}

	return result, nil
}

// NextDayOff returns the user's next approved day off. The dashboard widget
// degrades to a message when the user is not linked or the backend fails.
func (u *gatewayUseCase) NextDayOff(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	fallback := json.RawMessage(fmt.Sprintf(
		`{"employee_id":%d,"message":"Could not retrieve leave information."}`, employeeIDOrZero(user)))

	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return fallback, nil
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return fallback, nil
	}

	endpoint := fmt.Sprintf("/ess/api/leaves/next-off/%d", employeeID)
	result, err := u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
	if err != nil {
		u.logger.Warn("next day off widget falling back to message",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fallback, nil
	}

	return result, nil
}

// ListPayslips returns the user's payslips, or an empty list when the user
// has no HR mapping.
func (u *gatewayUseCase) ListPayslips(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return emptyJSONList, nil
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/ess/api/payslips/%d", employeeID)
	return u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
}

// DownloadPayslip streams a payslip PDF from the HR backend. The caller owns
// the returned body and must close it.
func (u *gatewayUseCase) DownloadPayslip(
	ctx context.Context,
	user *authDomain.User,
	payslipID int64,
) (*upstream.Download, error) {
	if _, err := requireEmployeeID(user); err != nil {
		return nil, err
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/ess/api/payslip/%d/download", payslipID)
	return u.client.Download(ctx, target, endpoint)
}

// SubmitExpense submits an expense with its receipt file.
func (u *gatewayUseCase) SubmitExpense(
	ctx context.Context,
	user *authDomain.User,
	input *ExpenseInput,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return nil, err
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"employee_id": strconv.FormatInt(employeeID, 10),
		"description": input.Description,
		"amount":      input.Amount,
		"date":        input.Date,
	}
	files := []upstream.FilePart{input.Receipt}

	return u.client.CallMultipart(ctx, target, "/ess/api/expenses", fields, files)
}

// ListDocuments returns the user's HR documents. An unlinked user gets an
// empty list; backend failures other than auth rejections also degrade to an
// empty list to keep the document page usable.
func (u *gatewayUseCase) ListDocuments(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return emptyJSONList, nil
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/ess/api/employee/%d/documents", employeeID)
	result, err := u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
	if err != nil {
		if isUpstreamAuthRejection(err) {
			return nil, err
		}
		u.logger.Warn("document list falling back to empty",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return emptyJSONList, nil
	}

	return result, nil
}

// UploadDocument uploads an employee document to the HR backend.
func (u *gatewayUseCase) UploadDocument(
	ctx context.Context,
	user *authDomain.User,
	input *DocumentUploadInput,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return nil, err
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"document_type": input.DocumentType,
	}
	files := []upstream.FilePart{input.File}

	endpoint := fmt.Sprintf("/ess/api/employee/%d/document", employeeID)
	return u.client.CallMultipart(ctx, target, endpoint, fields, files)
}

// DownloadDocument streams an attachment from the HR backend. Ownership of
// the attachment is verified downstream. The caller must close the body.
func (u *gatewayUseCase) DownloadDocument(
	ctx context.Context,
	user *authDomain.User,
	attachmentID int64,
) (*upstream.Download, error) {
	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/ess/api/attachment/%d/download", attachmentID)
	return u.client.Download(ctx, target, endpoint)
}

// DeleteDocument removes an attachment in the HR backend.
func (u *gatewayUseCase) DeleteDocument(
	ctx context.Context,
	user *authDomain.User,
	attachmentID int64,
) (json.RawMessage, error) {
	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/ess/api/attachment/%d", attachmentID)
	return u.client.CallJSON(ctx, target, http.MethodDelete, endpoint, nil)
}

// AttendanceStatus returns the user's live attendance state. The widget
// degrades to an informational payload instead of failing.
func (u *gatewayUseCase) AttendanceStatus(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return json.RawMessage(`{"status":"unknown","message":"Not linked to HR system."}`), nil
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return attendanceErrorFallback, nil
	}

	endpoint := fmt.Sprintf("/ess/api/attendance/status/%d", employeeID)
	result, err := u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
	if err != nil {
		u.logger.Warn("attendance status widget falling back",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return attendanceErrorFallback, nil
	}

	return result, nil
}

var attendanceErrorFallback = json.RawMessage(
	`{"status":"error","message":"Could not retrieve status from HR system."}`)

// AttendanceCheckIn registers a check-in for the user's HR employee.
func (u *gatewayUseCase) AttendanceCheckIn(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	return u.attendanceAction(ctx, user, "/ess/api/attendance/check-in")
}

// AttendanceCheckOut registers a check-out for the user's HR employee.
func (u *gatewayUseCase) AttendanceCheckOut(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	return u.attendanceAction(ctx, user, "/ess/api/attendance/check-out")
}

// attendanceAction posts the employee id as form data, matching the contract
// of the attendance endpoints.
func (u *gatewayUseCase) attendanceAction(
	ctx context.Context,
	user *authDomain.User,
	endpoint string,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return nil, err
	}

	target, err := u.target(ctx, user)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"employee_id": strconv.FormatInt(employeeID, 10),
	}

	return u.client.CallMultipart(ctx, target, endpoint, fields, nil)
}

// AttendanceTodayLog returns today's attendance entries. The widget degrades
// to a message instead of failing.
func (u *gatewayUseCase) AttendanceTodayLog(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	employeeID, err := requireEmployeeID(user)
	if err != nil {
		return json.RawMessage(`{"message":"Not linked to HR system."}`), nil
	}

	fallback := json.RawMessage(fmt.Sprintf(
		`{"employee_id":%d,"message":"Could not retrieve attendance log."}`, employeeID))

	target, err := u.target(ctx, user)
	if err != nil {
		return fallback, nil
	}

	endpoint := fmt.Sprintf("/ess/api/attendance/today/%d", employeeID)
	result, err := u.client.CallJSON(ctx, target, http.MethodGet, endpoint, nil)
	if err != nil {
		u.logger.Warn("attendance log widget falling back",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fallback, nil
	}

	return result, nil
}

// isUpstreamAuthRejection reports whether the HR backend rejected the service
// token itself. Those errors are surfaced, never masked by list fallbacks.
func isUpstreamAuthRejection(err error) bool {
	var clientErr *apperrors.UpstreamClientError
	return apperrors.As(err, &clientErr) && clientErr.StatusCode == http.StatusUnauthorized
}
