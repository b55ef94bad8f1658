package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	authService "github.com/allisson/hrgate/internal/auth/service"
	apperrors "github.com/allisson/hrgate/internal/errors"
	"github.com/allisson/hrgate/internal/mail"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	userRepo        UserRepository
	jwtService      authService.JWTService
	passwordService authService.PasswordService
	resetService    authService.ResetTokenService
	mailer          mail.Mailer
	resetExpiration time.Duration
	frontendURL     string
	logger          *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase with the given dependencies.
func NewAuthUseCase(
	userRepo UserRepository,
	jwtService authService.JWTService,
	passwordService authService.PasswordService,
	resetService authService.ResetTokenService,
	mailer mail.Mailer,
	resetExpiration time.Duration,
	frontendURL string,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:        userRepo,
		jwtService:      jwtService,
		passwordService: passwordService,
		resetService:    resetService,
		mailer:          mailer,
		resetExpiration: resetExpiration,
		frontendURL:     frontendURL,
		logger:          logger,
	}
}

// Login verifies email and password and returns a fresh token pair.
func (a *authUseCase) Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error) {
	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			a.logger.Warn("login failed: unknown email", slog.String("email", email))
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.passwordService.ComparePassword(password, user.HashedPassword) {
		a.logger.Warn("login failed: password mismatch", slog.String("email", email))
		return nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive {
		a.logger.Warn("login failed: inactive user", slog.String("email", email))
		return nil, authDomain.ErrUserInactive
	}

	pair, err := a.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("login successful",
		slog.String("email", user.Email),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (a *authUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	claims, err := a.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, authDomain.ErrInvalidToken
	}

	// Privileges come from the current user record, not the old token.
	user, err := a.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, authDomain.ErrInvalidToken
	}

	return a.issueTokenPair(user)
}

// Authenticate validates an access token and returns the current user record.
func (a *authUseCase) Authenticate(ctx context.Context, accessToken string) (*authDomain.User, error) {
	claims, err := a.jwtService.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, authDomain.ErrInvalidToken
	}

	user, err := a.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, authDomain.ErrUserInactive
	}

	return user, nil
}

// RequestPasswordReset issues a single-use reset token and emails a reset link.
func (a *authUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Acknowledge without revealing whether the account exists.
			a.logger.Info("password reset requested for unknown email", slog.String("email", email))
			return nil
		}
		return err
	}
	if !user.IsActive {
		a.logger.Info("password reset requested for inactive user", slog.String("email", email))
		return nil
	}

	plainToken, tokenHash, err := a.resetService.GenerateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(a.resetExpiration)
	if err := a.userRepo.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return err
	}

	resetLink := a.resetLink(plainToken)
	if err := a.mailer.SendPasswordReset(ctx, user.Email, user.FullName, resetLink); err != nil {
		a.logger.Error("failed to send password reset email",
			slog.String("email", user.Email),
			slog.Any("error", err),
		)
		return apperrors.Wrap(err, "failed to send password reset email")
	}

	a.logger.Info("password reset email sent", slog.String("email", user.Email))
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (a *authUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	hashedPassword, err := a.passwordService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	tokenHash := a.resetService.HashToken(token)
	consumed, err := a.userRepo.ConsumeResetToken(ctx, tokenHash, hashedPassword, time.Now().UTC())
	if err != nil {
		return err
	}
	if !consumed {
		return authDomain.ErrInvalidResetToken
	}

	a.logger.Info("password reset completed")
	return nil
}

// CreateUser registers a new portal user with a hashed password.
func (a *authUseCase) CreateUser(ctx context.Context, input *CreateUserInput) (*authDomain.User, error) {
	hashedPassword, err := a.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &authDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		TenantID:       input.TenantID,
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        input.IsAdmin,
		EmployeeID:     input.EmployeeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	a.logger.Info("user created",
		slog.String("email", user.Email),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return user, nil
}

func (a *authUseCase) issueTokenPair(user *authDomain.User) (*authDomain.TokenPair, error) {
	accessToken, err := a.jwtService.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := a.jwtService.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    authDomain.BearerTokenType,
	}, nil
}

func (a *authUseCase) resetLink(plainToken string) string {
	return fmt.Sprintf(
		"%s/reset-password?token=%s",
		strings.TrimRight(a.frontendURL, "/"),
		url.QueryEscape(plainToken),
	)
}
