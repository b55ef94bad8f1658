// Package http provides HTTP handlers and middleware for portal authentication.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/hrgate/internal/auth/http/dto"
	authUseCase "github.com/allisson/hrgate/internal/auth/usecase"
	apperrors "github.com/allisson/hrgate/internal/errors"
	"github.com/allisson/hrgate/internal/httputil"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// AuthHandler handles HTTP requests for authentication operations.
// It coordinates token issuance and password recovery with the AuthUseCase.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new authentication handler with required dependencies.
func NewAuthHandler(
	authUseCase authUseCase.AuthUseCase,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// LoginHandler exchanges an email and password for a token pair.
// POST /api/v1/login - No authentication required (this is the authentication endpoint).
// Returns 200 OK with access token, refresh token and token type.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshHandler exchanges a refresh token for a new token pair.
// POST /api/v1/refresh - No authentication required, the refresh token is the credential.
// Returns 200 OK with a freshly issued token pair.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// PasswordResetRequestHandler starts the password recovery flow.
// POST /api/v1/password-reset/request - No authentication required.
//
// Always returns 200 OK with a generic acknowledgement so the endpoint cannot
// be used to probe which email addresses have accounts.
func (h *AuthHandler) PasswordResetRequestHandler(c *gin.Context) {
	var req dto.PasswordResetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.authUseCase.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AcknowledgeResponse{
		Message: "If the email address is registered, a password reset link has been sent.",
	})
}

// PasswordResetConfirmHandler completes the password recovery flow.
// POST /api/v1/password-reset/confirm - No authentication required, the reset
// token is the credential.
// Returns 200 OK once the password has been replaced and the token consumed.
func (h *AuthHandler) PasswordResetConfirmHandler(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.authUseCase.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AcknowledgeResponse{
		Message: "Password has been reset successfully.",
	})
}

// MeHandler returns the authenticated user's account details.
// GET /api/v1/me - Requires authentication.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}
