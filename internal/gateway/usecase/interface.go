// Package usecase implements the proxy business logic between portal users
// and their tenant's HR backend.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
	"github.com/allisson/hrgate/internal/upstream"
)

// UpstreamClient defines the HR backend client contract used by the gateway.
type UpstreamClient interface {
	CallJSON(
		ctx context.Context,
		target upstream.Target,
		method, endpoint string,
		payload any,
	) (json.RawMessage, error)
	CallMultipart(
		ctx context.Context,
		target upstream.Target,
		endpoint string,
		fields map[string]string,
		files []upstream.FilePart,
	) (json.RawMessage, error)
	Download(ctx context.Context, target upstream.Target, endpoint string) (*upstream.Download, error)
}

// CredentialProvider resolves a tenant's decrypted downstream credential for
// a single outbound call.
type CredentialProvider interface {
	GetDecryptedCredential(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.DecryptedCredential, error)
}

// LeaveRequestInput contains the parameters for submitting a leave request.
type LeaveRequestInput struct {
	LeaveTypeID int64
	FromDate    string
	ToDate      string
	Note        string
}

// ExpenseInput contains the parameters for submitting an expense with its
// receipt file.
type ExpenseInput struct {
	Description string
	Amount      string
	Date        string
	Receipt     upstream.FilePart
}

// DocumentUploadInput contains the parameters for uploading an employee
// document.
type DocumentUploadInput struct {
	DocumentType string
	File         upstream.FilePart
}

// GatewayUseCase defines the portal operations proxied to the HR backend.
// Responses are passed through unchanged unless an operation documents a
// graceful fallback.
type GatewayUseCase interface {
	ListLeaveTypes(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	SubmitLeave(ctx context.Context, user *authDomain.User, input *LeaveRequestInput) (json.RawMessage, error)
	PendingLeavesCount(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	NextDayOff(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	ListPayslips(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	DownloadPayslip(ctx context.Context, user *authDomain.User, payslipID int64) (*upstream.Download, error)
	SubmitExpense(ctx context.Context, user *authDomain.User, input *ExpenseInput) (json.RawMessage, error)
	ListDocuments(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	UploadDocument(ctx context.Context, user *authDomain.User, input *DocumentUploadInput) (json.RawMessage, error)
	DownloadDocument(ctx context.Context, user *authDomain.User, attachmentID int64) (*upstream.Download, error)
	DeleteDocument(ctx context.Context, user *authDomain.User, attachmentID int64) (json.RawMessage, error)
	AttendanceStatus(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	AttendanceCheckIn(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	AttendanceCheckOut(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
	AttendanceTodayLog(ctx context.Context, user *authDomain.User) (json.RawMessage, error)
}
