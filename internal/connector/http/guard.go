// Package http provides the inbound connector API: the Guard middleware that
// authenticates external HR integrations and the handlers they may call.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/hrgate/internal/connector/domain"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
	apperrors "github.com/allisson/hrgate/internal/errors"
	"github.com/allisson/hrgate/internal/httputil"
)

// serviceTokenKey is the context key for the resolved service token.
type serviceTokenKey struct{}

// WithServiceToken returns a context carrying the resolved service token.
func WithServiceToken(ctx context.Context, token *domain.ServiceToken) context.Context {
	return context.WithValue(ctx, serviceTokenKey{}, token)
}

// GetServiceToken retrieves the resolved service token from the context.
func GetServiceToken(ctx context.Context) (*domain.ServiceToken, bool) {
	token, ok := ctx.Value(serviceTokenKey{}).(*domain.ServiceToken)
	return token, ok
}

// Guard authorizes inbound connector calls. Every call passes a fixed
// sequence of checks and leaves exactly one audit log entry, whichever check
// terminated it and even when the handler panics.
type Guard struct {
	tokens     connectorUseCase.ServiceTokenUseCase
	audit      connectorUseCase.AuditLogUseCase
	enabled    bool
	allowedIPs []string
	logger     *slog.Logger
}

// NewGuard creates a Guard. enabled is the global kill switch; an empty
// allowedIPs list admits every caller IP.
func NewGuard(
	tokens connectorUseCase.ServiceTokenUseCase,
	audit connectorUseCase.AuditLogUseCase,
	enabled bool,
	allowedIPs []string,
	logger *slog.Logger,
) *Guard {
	return &Guard{
		tokens:     tokens,
		audit:      audit,
		enabled:    enabled,
		allowedIPs: allowedIPs,
		logger:     logger,
	}
}

// Require returns middleware that admits the request only when the inbound
// service token passes the kill switch, IP allow-list, authentication and
// scope checks, in that order. Operations that declare ResourceKindNone skip
// the scope check. The audit entry is written in a defer so it covers every
// short-circuit and handler panics; a panic becomes a generic 500.
func (g *Guard) Require(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := &domain.AuditLog{
			Endpoint:  c.Request.URL.Path,
			Method:    c.Request.Method,
			RequestIP: c.ClientIP(),
		}

		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("connector handler panicked",
					slog.String("endpoint", entry.Endpoint),
					slog.Any("panic", r),
				)
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, httputil.ErrorResponse{
						Error:   "internal_error",
						Message: "An internal error occurred",
					})
				}
				c.Abort()
				entry.Message = "handler panicked"
			}

			entry.StatusCode = c.Writer.Status()
			entry.DurationMS = time.Since(start).Milliseconds()
			if entry.Message == "ok" && entry.StatusCode >= 400 {
				entry.Message = "handler error"
			}

			// The audit write must survive a disconnected caller.
			g.audit.Record(context.WithoutCancel(c.Request.Context()), entry)
		}()

		if !g.enabled {
			entry.Message = "integration disabled"
			httputil.HandleErrorGin(c, apperrors.ErrServiceDisabled, g.logger)
			c.Abort()
			return
		}

		if len(g.allowedIPs) > 0 && !slices.Contains(g.allowedIPs, c.ClientIP()) {
			entry.Message = "ip not in allow-list"
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, g.logger)
			c.Abort()
			return
		}

		plainToken, ok := bearerToken(c)
		if !ok {
			entry.Message = "missing bearer token"
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, g.logger)
			c.Abort()
			return
		}

		token, err := g.tokens.Authenticate(c.Request.Context(), plainToken)
		if err != nil {
			entry.Message = "invalid service token"
			httputil.HandleErrorGin(c, err, g.logger)
			c.Abort()
			return
		}

		entry.AccountID = &token.AccountID
		entry.ServiceTokenID = &token.ID

		if !token.Allows(kind) {
			entry.Message = "resource kind not in token scope"
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, g.logger)
			c.Abort()
			return
		}

		entry.Message = "ok"
		c.Request = c.Request.WithContext(WithServiceToken(c.Request.Context(), token))
		c.Next()
	}
}

// bearerToken extracts the bearer credential from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	prefix := "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
