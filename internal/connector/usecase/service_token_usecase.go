package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/connector/service"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// serviceTokenUseCase implements ServiceTokenUseCase.
type serviceTokenUseCase struct {
	tokenRepo    ServiceTokenRepository
	tokenService service.TokenService
	logger       *slog.Logger
}

// NewServiceTokenUseCase creates a new service token use case with required dependencies.
func NewServiceTokenUseCase(
	tokenRepo ServiceTokenRepository,
	tokenService service.TokenService,
	logger *slog.Logger,
) ServiceTokenUseCase {
	return &serviceTokenUseCase{
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Create issues a new service token after validating its scope. The plain
// token value is returned once; only the hash is persisted.
func (u *serviceTokenUseCase) Create(
	ctx context.Context,
	input *CreateServiceTokenInput,
) (*domain.ServiceToken, string, error) {
	if input.Name == "" {
		return nil, "", apperrors.Wrap(apperrors.ErrInvalidInput, "name is required")
	}
	if input.AccountID < 1 {
		return nil, "", apperrors.Wrap(apperrors.ErrInvalidInput, "account id must be a positive integer")
	}
	if err := domain.ValidateScope(input.Scope); err != nil {
		return nil, "", err
	}

	plainToken, tokenHash, err := u.tokenService.GenerateToken()
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	token := &domain.ServiceToken{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		AccountID: input.AccountID,
		TokenHash: tokenHash,
		Scope:     input.Scope,
		IsActive:  true,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.tokenRepo.Create(ctx, token); err != nil {
		return nil, "", err
	}

	u.logger.Info("service token created",
		slog.String("token_id", token.ID.String()),
		slog.String("name", token.Name),
		slog.Int64("account_id", token.AccountID),
	)

	return token, plainToken, nil
}

// Rotate replaces the token value on an existing record. The previous value
// stops authenticating the moment the new hash is stored.
func (u *serviceTokenUseCase) Rotate(ctx context.Context, tokenID uuid.UUID) (string, error) {
	if _, err := u.tokenRepo.Get(ctx, tokenID); err != nil {
		return "", err
	}

	plainToken, tokenHash, err := u.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	if err := u.tokenRepo.UpdateTokenHash(ctx, tokenID, tokenHash); err != nil {
		return "", err
	}

	u.logger.Info("service token rotated", slog.String("token_id", tokenID.String()))

	return plainToken, nil
}

// SetActive enables or disables a service token.
func (u *serviceTokenUseCase) SetActive(ctx context.Context, tokenID uuid.UUID, active bool) error {
	if err := u.tokenRepo.SetActive(ctx, tokenID, active); err != nil {
		return err
	}

	u.logger.Info("service token active state changed",
		slog.String("token_id", tokenID.String()),
		slog.Bool("active", active),
	)

	return nil
}

// Authenticate resolves an inbound plain token value to an active service
// token. Unknown and inactive tokens both fail with ErrInvalidServiceToken so
// a caller cannot distinguish them. On success the last-used timestamp is
// updated best-effort.
func (u *serviceTokenUseCase) Authenticate(
	ctx context.Context,
	plainToken string,
) (*domain.ServiceToken, error) {
	tokenHash := u.tokenService.HashToken(plainToken)

	token, err := u.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidServiceToken
		}
		return nil, err
	}

	if !token.IsActive {
		return nil, domain.ErrInvalidServiceToken
	}

	if err := u.tokenRepo.TouchLastUsed(ctx, token.ID, time.Now().UTC()); err != nil {
		u.logger.Warn("failed to update service token last-used timestamp",
			slog.String("token_id", token.ID.String()),
			slog.Any("error", err),
		)
	}

	return token, nil
}
