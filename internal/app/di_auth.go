package app

import (
	"fmt"

	authRepository "github.com/allisson/hrgate/internal/auth/repository"
	authService "github.com/allisson/hrgate/internal/auth/service"
	authUseCase "github.com/allisson/hrgate/internal/auth/usecase"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// JWTService returns the JWT service for portal token operations.
// Fails when the signing secret is not configured.
func (c *Container) JWTService() (authService.JWTService, error) {
	var err error
	c.jwtServiceInit.Do(func() {
		if c.config.JWTSigningSecret == "" {
			err = fmt.Errorf("JWT_SIGNING_SECRET is not set")
			c.initErrors["jwtService"] = err
			return
		}
		c.jwtService = authService.NewJWTService(
			c.config.JWTSigningSecret,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenExpiration,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["jwtService"]; exists {
		return nil, storedErr
	}
	return c.jwtService, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// ResetTokenService returns the password reset token service.
func (c *Container) ResetTokenService() authService.ResetTokenService {
	c.resetTokenServiceInit.Do(func() {
		c.resetTokenService = authService.NewResetTokenService()
	})
	return c.resetTokenService
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserLinker returns the employee-linking view of the user repository.
func (c *Container) UserLinker() (connectorUseCase.UserLinker, error) {
	if _, err := c.UserRepository(); err != nil {
		return nil, err
	}
	return c.userLinker, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// initUserRepository creates the user repository instance. The concrete
// repository serves both the auth use case and the connector's employee
// linker, so one instance is stored under both views.
func (c *Container) initUserRepository() error {
	db, err := c.DB()
	if err != nil {
		return fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		repo := authRepository.NewMySQLUserRepository(db)
		c.userRepo = repo
		c.userLinker = repo
	case "postgres":
		repo := authRepository.NewPostgreSQLUserRepository(db)
		c.userRepo = repo
		c.userLinker = repo
	default:
		return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	return nil
}

// initAuthUseCase creates the authentication use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	jwtService, err := c.JWTService()
	if err != nil {
		return nil, fmt.Errorf("failed to get jwt service for auth use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
	}

	useCase := authUseCase.NewAuthUseCase(
		userRepo,
		jwtService,
		c.PasswordService(),
		c.ResetTokenService(),
		c.Mailer(),
		c.config.ResetTokenExpiration,
		c.config.FrontendURL,
		c.Logger(),
	)

	return authUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}
