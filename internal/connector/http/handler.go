package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/hrgate/internal/connector/http/dto"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
	"github.com/allisson/hrgate/internal/httputil"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// ConnectorHandler handles inbound HTTP requests from external HR integrations.
type ConnectorHandler struct {
	linkUseCase connectorUseCase.EmployeeLinkUseCase
	logger      *slog.Logger
}

// NewConnectorHandler creates a new connector handler with required dependencies.
func NewConnectorHandler(
	linkUseCase connectorUseCase.EmployeeLinkUseCase,
	logger *slog.Logger,
) *ConnectorHandler {
	return &ConnectorHandler{
		linkUseCase: linkUseCase,
		logger:      logger,
	}
}

// PingHandler answers a connectivity probe. It declares no resource kind, so
// any authenticated service token may call it.
// GET /connector/api/v1/ping - Requires a service token.
func (h *ConnectorHandler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PingResponse{Status: "ok"})
}

// LinkEmployeeHandler binds a portal user to an HR employee record.
// POST /connector/api/v1/employees/link - Requires a service token scoped to
// hr.employee (or unrestricted).
func (h *ConnectorHandler) LinkEmployeeHandler(c *gin.Context) {
	var req dto.LinkEmployeeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.linkUseCase.LinkEmployee(c.Request.Context(), req.Email, req.EmployeeID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AcknowledgeResponse{Message: "Employee link updated."})
}

// AuditLogHandler lists audit log entries for administrators.
type AuditLogHandler struct {
	auditUseCase connectorUseCase.AuditLogUseCase
	logger       *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(
	auditUseCase connectorUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *AuditLogHandler {
	return &AuditLogHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListHandler returns a page of audit log entries, newest first.
// GET /api/v1/admin/audit-logs - Requires admin privileges.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]*dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.MapAuditLogToResponse(entry))
	}

	c.JSON(http.StatusOK, dto.AuditLogListResponse{
		AuditLogs: responses,
		Offset:    offset,
		Limit:     limit,
	})
}
