// Package http provides admin HTTP handlers for tenant credential management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/httputil"
	"github.com/allisson/hrgate/internal/tenant/http/dto"
	tenantUseCase "github.com/allisson/hrgate/internal/tenant/usecase"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// AdminHandler handles admin HTTP requests for tenant credential management.
type AdminHandler struct {
	credentialUseCase tenantUseCase.CredentialUseCase
	logger            *slog.Logger
}

// NewAdminHandler creates a new tenant admin handler with required dependencies.
func NewAdminHandler(
	credentialUseCase tenantUseCase.CredentialUseCase,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		credentialUseCase: credentialUseCase,
		logger:            logger,
	}
}

// GetCredentialHandler returns a tenant's credential metadata.
// GET /api/v1/admin/tenants/:id/credential - Requires admin privileges.
// The API key is never returned, only whether one is configured.
func (h *AdminHandler) GetCredentialHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credential, err := h.credentialUseCase.GetCredential(c.Request.Context(), tenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// UpsertCredentialHandler configures a tenant's downstream credential.
// PUT /api/v1/admin/tenants/:id/credential - Requires admin privileges.
// The API key is encrypted before persistence; the full record is replaced.
func (h *AdminHandler) UpsertCredentialHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpsertCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUseCase.UpsertCredential(c.Request.Context(), &tenantUseCase.UpsertCredentialInput{
		TenantID:  tenantID,
		BaseURL:   req.BaseURL,
		AccountID: req.AccountID,
		APIKey:    req.APIKey,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// TestConnectionHandler probes the tenant's HR backend with the stored credential.
// POST /api/v1/admin/tenants/:id/test-connection - Requires admin privileges.
// Returns the downstream auth-test payload unchanged.
func (h *AdminHandler) TestConnectionHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.credentialUseCase.TestConnection(c.Request.Context(), tenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

// parseTenantID extracts and validates the tenant ID path parameter.
func parseTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant id format: must be a valid UUID")
	}
	return tenantID, nil
}
