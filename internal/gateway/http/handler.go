// Package http provides HTTP handlers that relay portal requests to the HR
// backend of the authenticated user's tenant. Responses from the backend pass
// through unchanged so the portal frontend sees the HR system's own shapes.
package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	authHTTP "github.com/allisson/hrgate/internal/auth/http"
	apperrors "github.com/allisson/hrgate/internal/errors"
	"github.com/allisson/hrgate/internal/gateway/http/dto"
	gatewayUseCase "github.com/allisson/hrgate/internal/gateway/usecase"
	"github.com/allisson/hrgate/internal/httputil"
	"github.com/allisson/hrgate/internal/upstream"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// GatewayHandler handles HTTP requests relayed to tenant HR backends.
type GatewayHandler struct {
	gatewayUseCase gatewayUseCase.GatewayUseCase
	logger         *slog.Logger
}

// NewGatewayHandler creates a new gateway handler with required dependencies.
func NewGatewayHandler(
	gatewayUseCase gatewayUseCase.GatewayUseCase,
	logger *slog.Logger,
) *GatewayHandler {
	return &GatewayHandler{
		gatewayUseCase: gatewayUseCase,
		logger:         logger,
	}
}

// currentUser returns the authenticated user from the request context.
func (h *GatewayHandler) currentUser(c *gin.Context) (*authDomain.User, bool) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return user, true
}

// relayJSON writes a raw JSON payload from the HR backend to the client.
func relayJSON(c *gin.Context, status int, payload []byte) {
	c.Data(status, "application/json", payload)
}

// ListLeaveTypesHandler returns the leave types configured in the HR backend.
// GET /api/v1/leave-types - Requires authentication.
func (h *GatewayHandler) ListLeaveTypesHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.ListLeaveTypes(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// SubmitLeaveHandler submits a leave request for the authenticated user.
// POST /api/v1/leaves - Requires authentication and a linked HR employee.
// Returns 201 Created with the HR backend's response.
func (h *GatewayHandler) SubmitLeaveHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.LeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.gatewayUseCase.SubmitLeave(c.Request.Context(), user, &gatewayUseCase.LeaveRequestInput{
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		Note:        req.Note,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusCreated, result)
}

// PendingLeavesCountHandler returns the user's pending leave count widget data.
// GET /api/v1/leaves/pending-count - Requires authentication.
func (h *GatewayHandler) PendingLeavesCountHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.PendingLeavesCount(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// NextDayOffHandler returns the user's next approved day off widget data.
// GET /api/v1/leaves/next-off - Requires authentication.
func (h *GatewayHandler) NextDayOffHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.NextDayOff(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// ListPayslipsHandler returns the user's payslips.
// GET /api/v1/payslips - Requires authentication.
func (h *GatewayHandler) ListPayslipsHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.ListPayslips(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// DownloadPayslipHandler streams a payslip file to the client.
// GET /api/v1/payslips/:id/download - Requires authentication and a linked HR
// employee.
func (h *GatewayHandler) DownloadPayslipHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	payslipID, ok := h.parseID(c)
	if !ok {
		return
	}

	download, err := h.gatewayUseCase.DownloadPayslip(c.Request.Context(), user, payslipID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.streamDownload(c, download)
}

// SubmitExpenseHandler submits an expense with its receipt file.
// POST /api/v1/expenses - Requires authentication and a linked HR employee.
// Expects multipart/form-data with description, amount, date and a "receipt"
// file part. Returns 201 Created with the HR backend's response.
func (h *GatewayHandler) SubmitExpenseHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	receipt, file, ok := h.openUpload(c, "receipt")
	if !ok {
		return
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := h.gatewayUseCase.SubmitExpense(c.Request.Context(), user, &gatewayUseCase.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Receipt:     receipt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusCreated, result)
}

// ListDocumentsHandler returns the user's HR documents.
// GET /api/v1/documents - Requires authentication.
func (h *GatewayHandler) ListDocumentsHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.ListDocuments(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// UploadDocumentHandler uploads an employee document.
// POST /api/v1/documents - Requires authentication and a linked HR employee.
// Expects multipart/form-data with document_type and a "file" file part.
// Returns 201 Created with the HR backend's response.
func (h *GatewayHandler) UploadDocumentHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	document, file, ok := h.openUpload(c, "file")
	if !ok {
		return
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := h.gatewayUseCase.UploadDocument(c.Request.Context(), user, &gatewayUseCase.DocumentUploadInput{
		DocumentType: req.DocumentType,
		File:         document,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusCreated, result)
}

// DownloadDocumentHandler streams a document attachment to the client.
// GET /api/v1/documents/:id/download - Requires authentication.
func (h *GatewayHandler) DownloadDocumentHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	attachmentID, ok := h.parseID(c)
	if !ok {
		return
	}

	download, err := h.gatewayUseCase.DownloadDocument(c.Request.Context(), user, attachmentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.streamDownload(c, download)
}

// DeleteDocumentHandler removes a document attachment in the HR backend.
// DELETE /api/v1/documents/:id - Requires authentication.
func (h *GatewayHandler) DeleteDocumentHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	attachmentID, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.DeleteDocument(c.Request.Context(), user, attachmentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// AttendanceStatusHandler returns the user's live attendance state.
// GET /api/v1/attendance/status - Requires authentication.
func (h *GatewayHandler) AttendanceStatusHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.AttendanceStatus(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// AttendanceCheckInHandler registers a check-in for the user.
// POST /api/v1/attendance/check-in - Requires authentication and a linked HR
// employee.
func (h *GatewayHandler) AttendanceCheckInHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.AttendanceCheckIn(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// AttendanceCheckOutHandler registers a check-out for the user.
// POST /api/v1/attendance/check-out - Requires authentication and a linked HR
// employee.
func (h *GatewayHandler) AttendanceCheckOutHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.AttendanceCheckOut(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// AttendanceTodayLogHandler returns today's attendance entries for the user.
// GET /api/v1/attendance/today - Requires authentication.
func (h *GatewayHandler) AttendanceTodayLogHandler(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	result, err := h.gatewayUseCase.AttendanceTodayLog(c.Request.Context(), user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	relayJSON(c, http.StatusOK, result)
}

// parseID parses the :id route parameter as a positive integer.
func (h *GatewayHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a positive integer"),
			h.logger,
		)
		return 0, false
	}
	return id, true
}

// openUpload opens the named multipart file part and wraps it as a FilePart.
// The caller must close the returned file.
func (h *GatewayHandler) openUpload(c *gin.Context, field string) (upstream.FilePart, multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "a "+field+" file is required"),
			h.logger,
		)
		return upstream.FilePart{}, nil, false
	}

	file, err := header.Open()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return upstream.FilePart{}, nil, false
	}

	return upstream.FilePart{
		FieldName:   field,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, file, true
}

// streamDownload relays a file stream from the HR backend, preserving the
// content headers the backend provided.
func (h *GatewayHandler) streamDownload(c *gin.Context, download *upstream.Download) {
	defer func() {
		_ = download.Body.Close()
	}()

	extraHeaders := map[string]string{
		"Content-Disposition": download.ContentDisposition,
	}
	c.DataFromReader(
		http.StatusOK,
		download.ContentLength,
		download.ContentType,
		download.Body,
		extraHeaders,
	)
}
