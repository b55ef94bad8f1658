package usecase

import (
	"context"
	"encoding/json"
	"time"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	"github.com/allisson/hrgate/internal/metrics"
	"github.com/allisson/hrgate/internal/upstream"
)

// gatewayUseCaseWithMetrics decorates GatewayUseCase with metrics instrumentation.
type gatewayUseCaseWithMetrics struct {
	next    GatewayUseCase
	metrics metrics.BusinessMetrics
}

// NewGatewayUseCaseWithMetrics wraps a GatewayUseCase with metrics recording.
func NewGatewayUseCaseWithMetrics(useCase GatewayUseCase, m metrics.BusinessMetrics) GatewayUseCase {
	return &gatewayUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration for one proxied call.
func (g *gatewayUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "gateway", operation, status)
	g.metrics.RecordDuration(ctx, "gateway", operation, time.Since(start), status)
}

func (g *gatewayUseCaseWithMetrics) ListLeaveTypes(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.ListLeaveTypes(ctx, user)
	g.record(ctx, "leave_types_list", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) SubmitLeave(
	ctx context.Context,
	user *authDomain.User,
	input *LeaveRequestInput,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.SubmitLeave(ctx, user, input)
	g.record(ctx, "leave_create", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) PendingLeavesCount(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.PendingLeavesCount(ctx, user)
	g.record(ctx, "pending_leaves_count", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) NextDayOff(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.NextDayOff(ctx, user)
	g.record(ctx, "next_day_off", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) ListPayslips(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.ListPayslips(ctx, user)
	g.record(ctx, "payslip_list", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) DownloadPayslip(
	ctx context.Context,
	user *authDomain.User,
	payslipID int64,
) (*upstream.Download, error) {
	start := time.Now()
	download, err := g.next.DownloadPayslip(ctx, user, payslipID)
	g.record(ctx, "payslip_download", start, err)
	return download, err
}

func (g *gatewayUseCaseWithMetrics) SubmitExpense(
	ctx context.Context,
	user *authDomain.User,
	input *ExpenseInput,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.SubmitExpense(ctx, user, input)
	g.record(ctx, "expense_create", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) ListDocuments(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.ListDocuments(ctx, user)
	g.record(ctx, "document_list", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) UploadDocument(
	ctx context.Context,
	user *authDomain.User,
	input *DocumentUploadInput,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.UploadDocument(ctx, user, input)
	g.record(ctx, "document_upload", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) DownloadDocument(
	ctx context.Context,
	user *authDomain.User,
	attachmentID int64,
) (*upstream.Download, error) {
	start := time.Now()
	download, err := g.next.DownloadDocument(ctx, user, attachmentID)
	g.record(ctx, "document_download", start, err)
	return download, err
}

func (g *gatewayUseCaseWithMetrics) DeleteDocument(
	ctx context.Context,
	user *authDomain.User,
	attachmentID int64,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.DeleteDocument(ctx, user, attachmentID)
	g.record(ctx, "document_delete", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) AttendanceStatus(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.AttendanceStatus(ctx, user)
	g.record(ctx, "attendance_status", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) AttendanceCheckIn(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.AttendanceCheckIn(ctx, user)
	g.record(ctx, "attendance_check_in", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) AttendanceCheckOut(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.AttendanceCheckOut(ctx, user)
	g.record(ctx, "attendance_check_out", start, err)
	return result, err
}

func (g *gatewayUseCaseWithMetrics) AttendanceTodayLog(
	ctx context.Context,
	user *authDomain.User,
) (json.RawMessage, error) {
	start := time.Now()
	result, err := g.next.AttendanceTodayLog(ctx, user)
	g.record(ctx, "attendance_today_log", start, err)
	return result, err
}
