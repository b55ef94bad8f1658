package app

import (
	"fmt"

	authHTTP "github.com/allisson/hrgate/internal/auth/http"
	connectorHTTP "github.com/allisson/hrgate/internal/connector/http"
	gatewayHTTP "github.com/allisson/hrgate/internal/gateway/http"
	"github.com/allisson/hrgate/internal/http"
	tenantHTTP "github.com/allisson/hrgate/internal/tenant/http"
)

// httpDependencies assembles the handlers, guard and middleware dependencies
// mounted by the API server.
func (c *Container) httpDependencies() (http.Dependencies, error) {
	logger := c.Logger()

	authUC, err := c.AuthUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	credentialUC, err := c.CredentialUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get credential use case for http server: %w", err)
	}

	gatewayUC, err := c.GatewayUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get gateway use case for http server: %w", err)
	}

	serviceTokenUC, err := c.ServiceTokenUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get service token use case for http server: %w", err)
	}

	auditLogUC, err := c.AuditLogUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get audit log use case for http server: %w", err)
	}

	employeeLinkUC, err := c.EmployeeLinkUseCase()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get employee link use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return http.Dependencies{}, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	guard := connectorHTTP.NewGuard(
		serviceTokenUC,
		auditLogUC,
		c.config.ConnectorEnabled,
		c.config.AllowedIPs(),
		logger,
	)

	return http.Dependencies{
		AuthUseCase:      authUC,
		AuthHandler:      authHTTP.NewAuthHandler(authUC, logger),
		AdminHandler:     tenantHTTP.NewAdminHandler(credentialUC, logger),
		GatewayHandler:   gatewayHTTP.NewGatewayHandler(gatewayUC, logger),
		ConnectorHandler: connectorHTTP.NewConnectorHandler(employeeLinkUC, logger),
		AuditLogHandler:  connectorHTTP.NewAuditLogHandler(auditLogUC, logger),
		Guard:            guard,
		MetricsProvider:  metricsProvider,
	}, nil
}
