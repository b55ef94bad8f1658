package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/hrgate/internal/connector/domain"
	"github.com/allisson/hrgate/internal/connector/service"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

// mockServiceTokenRepository is a mock implementation of ServiceTokenRepository for testing.
type mockServiceTokenRepository struct {
	mock.Mock
}

func (m *mockServiceTokenRepository) Create(ctx context.Context, token *domain.ServiceToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockServiceTokenRepository) Get(
	ctx context.Context,
	tokenID uuid.UUID,
) (*domain.ServiceToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceToken), args.Error(1)
}

func (m *mockServiceTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.ServiceToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceToken), args.Error(1)
}

func (m *mockServiceTokenRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.ServiceToken, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ServiceToken), args.Error(1)
}

func (m *mockServiceTokenRepository) UpdateTokenHash(
	ctx context.Context,
	tokenID uuid.UUID,
	tokenHash string,
) error {
	args := m.Called(ctx, tokenID, tokenHash)
	return args.Error(0)
}

func (m *mockServiceTokenRepository) SetActive(
	ctx context.Context,
	tokenID uuid.UUID,
	active bool,
) error {
	args := m.Called(ctx, tokenID, active)
	return args.Error(0)
}

func (m *mockServiceTokenRepository) TouchLastUsed(
	ctx context.Context,
	tokenID uuid.UUID,
	usedAt time.Time,
) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func newTestServiceTokenUseCase(tokenRepo ServiceTokenRepository) ServiceTokenUseCase {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewServiceTokenUseCase(tokenRepo, service.NewTokenService(), logger)
}

func activeToken(scope ...domain.ResourceKind) *domain.ServiceToken {
	now := time.Now().UTC()
	return &domain.ServiceToken{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "payroll-sync",
		AccountID: 7,
		TokenHash: "stored-hash",
		Scope:     scope,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestServiceTokenUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)

		var persisted *domain.ServiceToken
		tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.ServiceToken")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*domain.ServiceToken)
			}).
			Return(nil)

		token, plainToken, err := useCase.Create(ctx, &CreateServiceTokenInput{
			Name:      "payroll-sync",
			AccountID: 7,
			Scope:     []domain.ResourceKind{domain.ResourceKindLeave},
			Note:      "payroll integration",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, plainToken)
		assert.True(t, token.IsActive)
		assert.Equal(t, "payroll-sync", token.Name)
		assert.Equal(t, int64(7), token.AccountID)

		// Only the hash is persisted, never the plain value.
		require.NotNil(t, persisted)
		assert.NotEqual(t, plainToken, persisted.TokenHash)
		assert.Equal(t, service.NewTokenService().HashToken(plainToken), persisted.TokenHash)
	})

	t.Run("Error_InvalidScope", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)

		_, _, err := useCase.Create(ctx, &CreateServiceTokenInput{
			Name:      "payroll-sync",
			AccountID: 7,
			Scope:     []domain.ResourceKind{"hr.unknown"},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidResourceKind)
		tokenRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Error_MissingName", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)

		_, _, err := useCase.Create(ctx, &CreateServiceTokenInput{AccountID: 7})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_InvalidAccountID", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)

		_, _, err := useCase.Create(ctx, &CreateServiceTokenInput{Name: "payroll-sync"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestServiceTokenUseCase_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NewValueStored", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)
		token := activeToken()

		var newHash string
		tokenRepo.On("Get", ctx, token.ID).Return(token, nil)
		tokenRepo.On("UpdateTokenHash", ctx, token.ID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash = args.Get(2).(string)
			}).
			Return(nil)

		plainToken, err := useCase.Rotate(ctx, token.ID)
		require.NoError(t, err)

		assert.NotEmpty(t, plainToken)
		assert.NotEqual(t, token.TokenHash, newHash)
		assert.Equal(t, service.NewTokenService().HashToken(plainToken), newHash)
	})

	t.Run("Error_TokenNotFound", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)
		tokenID := uuid.Must(uuid.NewV7())

		tokenRepo.On("Get", ctx, tokenID).Return(nil, domain.ErrServiceTokenNotFound)

		_, err := useCase.Rotate(ctx, tokenID)
		assert.ErrorIs(t, err, domain.ErrServiceTokenNotFound)
		tokenRepo.AssertNotCalled(t, "UpdateTokenHash")
	})
}

func TestServiceTokenUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	tokenService := service.NewTokenService()

	t.Run("Success_TouchesLastUsed", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)
		token := activeToken(domain.ResourceKindLeave)

		tokenRepo.On("GetByTokenHash", ctx, tokenService.HashToken("plain-value")).Return(token, nil)
		tokenRepo.On("TouchLastUsed", ctx, token.ID, mock.AnythingOfType("time.Time")).Return(nil)

		resolved, err := useCase.Authenticate(ctx, "plain-value")
		require.NoError(t, err)
		assert.Equal(t, token.ID, resolved.ID)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("Success_LastUsedFailureDoesNotFailCall", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)
		token := activeToken()

		tokenRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(token, nil)
		tokenRepo.On("TouchLastUsed", ctx, token.ID, mock.AnythingOfType("time.Time")).
			Return(assert.AnError)

		resolved, err := useCase.Authenticate(ctx, "plain-value")
		require.NoError(t, err)
		assert.Equal(t, token.ID, resolved.ID)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)

		tokenRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).
			Return(nil, domain.ErrServiceTokenNotFound)

		_, err := useCase.Authenticate(ctx, "unknown-value")
		assert.ErrorIs(t, err, domain.ErrInvalidServiceToken)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_InactiveToken", func(t *testing.T) {
		tokenRepo := &mockServiceTokenRepository{}
		useCase := newTestServiceTokenUseCase(tokenRepo)
		token := activeToken()
		token.IsActive = false

		tokenRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(token, nil)

		_, err := useCase.Authenticate(ctx, "plain-value")
		assert.ErrorIs(t, err, domain.ErrInvalidServiceToken)
		tokenRepo.AssertNotCalled(t, "TouchLastUsed")
	})
}

func TestServiceTokenUseCase_SetActive(t *testing.T) {
	ctx := context.Background()

	tokenRepo := &mockServiceTokenRepository{}
	useCase := newTestServiceTokenUseCase(tokenRepo)
	tokenID := uuid.Must(uuid.NewV7())

	tokenRepo.On("SetActive", ctx, tokenID, false).Return(nil)

	err := useCase.SetActive(ctx, tokenID, false)
	require.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}

func TestServiceTokenAllows(t *testing.T) {
	t.Run("EmptyScopeIsUnrestricted", func(t *testing.T) {
		token := activeToken()

		assert.True(t, token.Allows(domain.ResourceKindLeave))
		assert.True(t, token.Allows(domain.ResourceKindPayslip))
		assert.True(t, token.Allows(domain.ResourceKindAttachment))
	})

	t.Run("NonEmptyScopeIsAnAllowList", func(t *testing.T) {
		token := activeToken(domain.ResourceKindLeave)

		assert.True(t, token.Allows(domain.ResourceKindLeave))
		assert.False(t, token.Allows(domain.ResourceKindPayslip))
	})

	t.Run("NoDeclaredKindIsAlwaysPermitted", func(t *testing.T) {
		token := activeToken(domain.ResourceKindLeave)

		assert.True(t, token.Allows(domain.ResourceKindNone))
	})
}
