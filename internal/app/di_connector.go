package app

import (
	"fmt"

	connectorRepository "github.com/allisson/hrgate/internal/connector/repository"
	connectorService "github.com/allisson/hrgate/internal/connector/service"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// ServiceTokenService returns the service token generation service.
func (c *Container) ServiceTokenService() connectorService.TokenService {
	c.serviceTokenServiceInit.Do(func() {
		c.serviceTokenService = connectorService.NewTokenService()
	})
	return c.serviceTokenService
}

// ServiceTokenRepository returns the service token repository based on database driver.
func (c *Container) ServiceTokenRepository() (connectorUseCase.ServiceTokenRepository, error) {
	var err error
	c.serviceTokenRepoInit.Do(func() {
		c.serviceTokenRepo, err = c.initServiceTokenRepository()
		if err != nil {
			c.initErrors["serviceTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["serviceTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.serviceTokenRepo, nil
}

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (connectorUseCase.AuditLogRepository, error) {
	var err error
	c.auditLogRepoInit.Do(func() {
		c.auditLogRepo, err = c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// ServiceTokenUseCase returns the service token use case.
func (c *Container) ServiceTokenUseCase() (connectorUseCase.ServiceTokenUseCase, error) {
	var err error
	c.serviceTokenUseCaseInit.Do(func() {
		c.serviceTokenUseCase, err = c.initServiceTokenUseCase()
		if err != nil {
			c.initErrors["serviceTokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["serviceTokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.serviceTokenUseCase, nil
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (connectorUseCase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// EmployeeLinkUseCase returns the employee link use case.
func (c *Container) EmployeeLinkUseCase() (connectorUseCase.EmployeeLinkUseCase, error) {
	var err error
	c.employeeLinkUseCaseInit.Do(func() {
		c.employeeLinkUseCase, err = c.initEmployeeLinkUseCase()
		if err != nil {
			c.initErrors["employeeLinkUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["employeeLinkUseCase"]; exists {
		return nil, storedErr
	}
	return c.employeeLinkUseCase, nil
}

// initServiceTokenRepository creates the service token repository instance.
func (c *Container) initServiceTokenRepository() (connectorUseCase.ServiceTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for service token repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return connectorRepository.NewMySQLServiceTokenRepository(db), nil
	case "postgres":
		return connectorRepository.NewPostgreSQLServiceTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogRepository creates the audit log repository instance.
func (c *Container) initAuditLogRepository() (connectorUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return connectorRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return connectorRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initServiceTokenUseCase creates the service token use case with all its dependencies.
func (c *Container) initServiceTokenUseCase() (connectorUseCase.ServiceTokenUseCase, error) {
	tokenRepo, err := c.ServiceTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get service token repository for service token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for service token use case: %w", err)
	}

	useCase := connectorUseCase.NewServiceTokenUseCase(
		tokenRepo,
		c.ServiceTokenService(),
		c.Logger(),
	)

	return connectorUseCase.NewServiceTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initAuditLogUseCase creates the audit log use case with all its dependencies.
func (c *Container) initAuditLogUseCase() (connectorUseCase.AuditLogUseCase, error) {
	auditRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for audit log use case: %w", err)
	}

	useCase := connectorUseCase.NewAuditLogUseCase(auditRepo, c.Logger())

	return connectorUseCase.NewAuditLogUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initEmployeeLinkUseCase creates the employee link use case with all its dependencies.
func (c *Container) initEmployeeLinkUseCase() (connectorUseCase.EmployeeLinkUseCase, error) {
	userLinker, err := c.UserLinker()
	if err != nil {
		return nil, fmt.Errorf("failed to get user linker for employee link use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for employee link use case: %w", err)
	}

	useCase := connectorUseCase.NewEmployeeLinkUseCase(userLinker, c.Logger())

	return connectorUseCase.NewEmployeeLinkUseCaseWithMetrics(useCase, businessMetrics), nil
}
