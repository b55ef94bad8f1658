package app

import (
	"fmt"

	tenantRepository "github.com/allisson/hrgate/internal/tenant/repository"
	tenantUseCase "github.com/allisson/hrgate/internal/tenant/usecase"
)

// TenantRepository returns the tenant repository based on database driver.
func (c *Container) TenantRepository() (tenantUseCase.TenantRepository, error) {
	var err error
	c.tenantRepoInit.Do(func() {
		c.tenantRepo, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepo"]; exists {
		return nil, storedErr
	}
	return c.tenantRepo, nil
}

// CredentialRepository returns the tenant credential repository based on database driver.
func (c *Container) CredentialRepository() (tenantUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// CredentialUseCase returns the tenant credential use case.
func (c *Container) CredentialUseCase() (tenantUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// initTenantRepository creates the tenant repository instance.
func (c *Container) initTenantRepository() (tenantUseCase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tenantRepository.NewMySQLTenantRepository(db), nil
	case "postgres":
		return tenantRepository.NewPostgreSQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialRepository creates the tenant credential repository instance.
func (c *Container) initCredentialRepository() (tenantUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tenantRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return tenantRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialUseCase creates the tenant credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (tenantUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	credentialVault, err := c.Vault()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	useCase := tenantUseCase.NewCredentialUseCase(
		txManager,
		tenantRepo,
		credentialRepo,
		credentialVault,
		c.UpstreamClient(),
		c.Logger(),
	)

	return tenantUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}
