// Package http provides the API HTTP server, route table and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/hrgate/internal/auth/http"
	authUseCase "github.com/allisson/hrgate/internal/auth/usecase"
	connectorDomain "github.com/allisson/hrgate/internal/connector/domain"
	connectorHTTP "github.com/allisson/hrgate/internal/connector/http"
	gatewayHTTP "github.com/allisson/hrgate/internal/gateway/http"
	"github.com/allisson/hrgate/internal/metrics"
	tenantHTTP "github.com/allisson/hrgate/internal/tenant/http"
)

// Dependencies groups the handlers and middleware collaborators the server
// mounts. MetricsProvider may be nil when metrics are disabled.
type Dependencies struct {
	AuthUseCase      authUseCase.AuthUseCase
	AuthHandler      *authHTTP.AuthHandler
	AdminHandler     *tenantHTTP.AdminHandler
	GatewayHandler   *gatewayHTTP.GatewayHandler
	ConnectorHandler *connectorHTTP.ConnectorHandler
	AuditLogHandler  *connectorHTTP.AuditLogHandler
	Guard            *connectorHTTP.Guard
	MetricsProvider  *metrics.Provider
}

// Options carries the route-level settings read from configuration.
type Options struct {
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	RateLimitLoginEnabled        bool
	RateLimitLoginRequestsPerSec float64
	RateLimitLoginBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsNamespace string
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	deps Dependencies,
	opts Options,
) *Server {
	server := &Server{
		db:     db,
		logger: logger,
	}

	router := server.setupRouter(deps, opts)

	server.server = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Payslip and document downloads stream through this server, so the
		// write timeout must exceed the upstream timeout.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// setupRouter builds the gin engine with middleware and the full route table.
func (s *Server) setupRouter(deps Dependencies, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api/v1")

	// Public authentication endpoints. Login carries its own IP-based rate
	// limiter since it is the password-guessing surface.
	login := api.Group("")
	if opts.RateLimitLoginEnabled {
		login.Use(authHTTP.LoginRateLimitMiddleware(
			opts.RateLimitLoginRequestsPerSec,
			opts.RateLimitLoginBurst,
			s.logger,
		))
	}
	login.POST("/login", deps.AuthHandler.LoginHandler)

	api.POST("/refresh", deps.AuthHandler.RefreshHandler)
	api.POST("/password-reset/request", deps.AuthHandler.PasswordResetRequestHandler)
	api.POST("/password-reset/confirm", deps.AuthHandler.PasswordResetConfirmHandler)

	// Everything below requires a valid access token.
	authenticated := api.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(deps.AuthUseCase, s.logger))
	if opts.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			opts.RateLimitRequestsPerSec,
			opts.RateLimitBurst,
			s.logger,
		))
	}
	if deps.MetricsProvider != nil {
		authenticated.Use(metrics.HTTPMetricsMiddleware(
			deps.MetricsProvider.MeterProvider(),
			opts.MetricsNamespace,
		))
	}

	authenticated.GET("/me", deps.AuthHandler.MeHandler)

	gateway := deps.GatewayHandler
	authenticated.GET("/leave-types", gateway.ListLeaveTypesHandler)
	authenticated.POST("/leave-request", gateway.SubmitLeaveHandler)
	authenticated.GET("/dashboard/pending-leaves-count", gateway.PendingLeavesCountHandler)
	authenticated.GET("/dashboard/next-day-off", gateway.NextDayOffHandler)
	authenticated.GET("/payslips", gateway.ListPayslipsHandler)
	authenticated.GET("/payslip/:id/download", gateway.DownloadPayslipHandler)
	authenticated.POST("/expenses", gateway.SubmitExpenseHandler)
	authenticated.GET("/documents", gateway.ListDocumentsHandler)
	authenticated.POST("/documents", gateway.UploadDocumentHandler)
	authenticated.GET("/document/:id/download", gateway.DownloadDocumentHandler)
	authenticated.DELETE("/document/:id", gateway.DeleteDocumentHandler)
	authenticated.GET("/attendance/status", gateway.AttendanceStatusHandler)
	authenticated.POST("/attendance/check-in", gateway.AttendanceCheckInHandler)
	authenticated.POST("/attendance/check-out", gateway.AttendanceCheckOutHandler)
	authenticated.GET("/attendance/today-log", gateway.AttendanceTodayLogHandler)

	admin := authenticated.Group("/admin")
	admin.Use(authHTTP.AdminMiddleware(s.logger))
	admin.GET("/tenants/:id/credential", deps.AdminHandler.GetCredentialHandler)
	admin.PUT("/tenants/:id/credential", deps.AdminHandler.UpsertCredentialHandler)
	admin.POST("/tenants/:id/test-connection", deps.AdminHandler.TestConnectionHandler)
	admin.GET("/audit-logs", deps.AuditLogHandler.ListHandler)

	// Inbound integration surface. Every route passes through the guard,
	// which audits the call whether or not it is admitted.
	connector := router.Group("/connector/api/v1")
	connector.GET(
		"/ping",
		deps.Guard.Require(connectorDomain.ResourceKindNone),
		deps.ConnectorHandler.PingHandler,
	)
	connector.POST(
		"/employees/link",
		deps.Guard.Require(connectorDomain.ResourceKindEmployee),
		deps.ConnectorHandler.LinkEmployeeHandler,
	)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	var err error
	if s.db == nil {
		err = fmt.Errorf("database is not configured")
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = s.db.PingContext(ctx)
	}

	if err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
