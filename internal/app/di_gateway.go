package app

import (
	"fmt"

	gatewayUseCase "github.com/allisson/hrgate/internal/gateway/usecase"
)

// GatewayUseCase returns the HR gateway use case.
func (c *Container) GatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	var err error
	c.gatewayUseCaseInit.Do(func() {
		c.gatewayUseCase, err = c.initGatewayUseCase()
		if err != nil {
			c.initErrors["gatewayUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayUseCase"]; exists {
		return nil, storedErr
	}
	return c.gatewayUseCase, nil
}

// initGatewayUseCase creates the HR gateway use case with all its dependencies.
// The credential use case doubles as the gateway's credential provider.
func (c *Container) initGatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	credentialUseCase, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for gateway use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gateway use case: %w", err)
	}

	useCase := gatewayUseCase.NewGatewayUseCase(
		credentialUseCase,
		c.UpstreamClient(),
		c.Logger(),
	)

	return gatewayUseCase.NewGatewayUseCaseWithMetrics(useCase, businessMetrics), nil
}
