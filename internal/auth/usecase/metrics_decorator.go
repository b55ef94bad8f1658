package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	"github.com/allisson/hrgate/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	email, password string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Login(ctx, email, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "login", status)
	a.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return pair, err
}

// Refresh records metrics for token refresh operations.
func (a *authUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Refresh(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "refresh", status)
	a.metrics.RecordDuration(ctx, "auth", "refresh", time.Since(start), status)

	return pair, err
}

// Authenticate records metrics for access token authentication operations.
func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	accessToken string,
) (*authDomain.User, error) {
	start := time.Now()
	user, err := a.next.Authenticate(ctx, accessToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return user, err
}

// RequestPasswordReset records metrics for password reset request operations.
func (a *authUseCaseWithMetrics) RequestPasswordReset(ctx context.Context, email string) error {
	start := time.Now()
	err := a.next.RequestPasswordReset(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "password_reset_request", status)
	a.metrics.RecordDuration(ctx, "auth", "password_reset_request", time.Since(start), status)

	return err
}

// ResetPassword records metrics for password reset operations.
func (a *authUseCaseWithMetrics) ResetPassword(ctx context.Context, token, newPassword string) error {
	start := time.Now()
	err := a.next.ResetPassword(ctx, token, newPassword)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "password_reset", status)
	a.metrics.RecordDuration(ctx, "auth", "password_reset", time.Since(start), status)

	return err
}

// CreateUser records metrics for user creation operations.
func (a *authUseCaseWithMetrics) CreateUser(
	ctx context.Context,
	input *CreateUserInput,
) (*authDomain.User, error) {
	start := time.Now()
	user, err := a.next.CreateUser(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "user_create", status)
	a.metrics.RecordDuration(ctx, "auth", "user_create", time.Since(start), status)

	return user, err
}
