// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/allisson/hrgate/internal/auth/service"
	authUseCase "github.com/allisson/hrgate/internal/auth/usecase"
	"github.com/allisson/hrgate/internal/config"
	connectorService "github.com/allisson/hrgate/internal/connector/service"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
	"github.com/allisson/hrgate/internal/database"
	gatewayUseCase "github.com/allisson/hrgate/internal/gateway/usecase"
	"github.com/allisson/hrgate/internal/http"
	"github.com/allisson/hrgate/internal/mail"
	"github.com/allisson/hrgate/internal/metrics"
	tenantUseCase "github.com/allisson/hrgate/internal/tenant/usecase"
	"github.com/allisson/hrgate/internal/upstream"
	"github.com/allisson/hrgate/internal/vault"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	vault           *vault.Vault
	upstreamClient  *upstream.Client
	mailer          mail.Mailer
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Authentication
	jwtService        authService.JWTService
	passwordService   authService.PasswordService
	resetTokenService authService.ResetTokenService
	userRepo          authUseCase.UserRepository
	userLinker        connectorUseCase.UserLinker
	authUseCase       authUseCase.AuthUseCase

	// Tenant credentials
	tenantRepo        tenantUseCase.TenantRepository
	credentialRepo    tenantUseCase.CredentialRepository
	credentialUseCase tenantUseCase.CredentialUseCase

	// HR gateway
	gatewayUseCase gatewayUseCase.GatewayUseCase

	// Inbound connector
	serviceTokenService connectorService.TokenService
	serviceTokenRepo    connectorUseCase.ServiceTokenRepository
	auditLogRepo        connectorUseCase.AuditLogRepository
	serviceTokenUseCase connectorUseCase.ServiceTokenUseCase
	auditLogUseCase     connectorUseCase.AuditLogUseCase
	employeeLinkUseCase connectorUseCase.EmployeeLinkUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	vaultInit               sync.Once
	upstreamClientInit      sync.Once
	mailerInit              sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	jwtServiceInit          sync.Once
	passwordServiceInit     sync.Once
	resetTokenServiceInit   sync.Once
	userRepoInit            sync.Once
	authUseCaseInit         sync.Once
	tenantRepoInit          sync.Once
	credentialRepoInit      sync.Once
	credentialUseCaseInit   sync.Once
	gatewayUseCaseInit      sync.Once
	serviceTokenServiceInit sync.Once
	serviceTokenRepoInit    sync.Once
	auditLogRepoInit        sync.Once
	serviceTokenUseCaseInit sync.Once
	auditLogUseCaseInit     sync.Once
	employeeLinkUseCaseInit sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the database transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// Vault returns the credential vault.
// Fails when the encryption key is missing or not valid base64, so a
// misconfigured deployment stops at boot instead of at first use.
func (c *Container) Vault() (*vault.Vault, error) {
	var err error
	c.vaultInit.Do(func() {
		c.vault, err = c.initVault()
		if err != nil {
			c.initErrors["vault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vault"]; exists {
		return nil, storedErr
	}
	return c.vault, nil
}

// UpstreamClient returns the HR backend HTTP client.
func (c *Container) UpstreamClient() *upstream.Client {
	c.upstreamClientInit.Do(func() {
		c.upstreamClient = upstream.NewClient(c.config.UpstreamTimeout, c.Logger())
	})
	return c.upstreamClient
}

// Mailer returns the outbound mailer. Without an SMTP host configured it
// falls back to a logging mailer so password reset flows stay testable in
// development.
func (c *Container) Mailer() mail.Mailer {
	c.mailerInit.Do(func() {
		if c.config.SMTPHost == "" {
			c.mailer = mail.NewLogMailer(c.Logger())
			return
		}
		c.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.SMTPFrom,
		}, c.Logger())
	})
	return c.mailer
}

// MetricsProvider returns the Prometheus metrics provider.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op recorder when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initVault creates the credential vault from the configured key and cipher.
func (c *Container) initVault() (*vault.Vault, error) {
	key, err := c.config.VaultKeyBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to load vault encryption key: %w", err)
	}

	v, err := vault.New(key, c.config.VaultCipher)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}
	return v, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	deps, err := c.httpDependencies()
	if err != nil {
		return nil, err
	}

	opts := http.Options{
		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,

		RateLimitLoginEnabled:        c.config.RateLimitLoginEnabled,
		RateLimitLoginRequestsPerSec: c.config.RateLimitLoginRequestsPerSec,
		RateLimitLoginBurst:          c.config.RateLimitLoginBurst,

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,

		MetricsNamespace: c.config.MetricsNamespace,
	}

	server := http.NewServer(
		db,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
		deps,
		opts,
	)

	return server, nil
}

// initMetricsServer creates the metrics HTTP server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
