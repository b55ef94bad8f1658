package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/hrgate/internal/connector/domain"
	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// mockServiceTokenUseCase is a mock implementation of ServiceTokenUseCase for testing.
type mockServiceTokenUseCase struct {
	mock.Mock
}

func (m *mockServiceTokenUseCase) Create(
	ctx context.Context,
	input *connectorUseCase.CreateServiceTokenInput,
) (*domain.ServiceToken, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.ServiceToken), args.String(1), args.Error(2)
}

func (m *mockServiceTokenUseCase) Rotate(ctx context.Context, tokenID uuid.UUID) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *mockServiceTokenUseCase) SetActive(
	ctx context.Context,
	tokenID uuid.UUID,
	active bool,
) error {
	args := m.Called(ctx, tokenID, active)
	return args.Error(0)
}

func (m *mockServiceTokenUseCase) Authenticate(
	ctx context.Context,
	plainToken string,
) (*domain.ServiceToken, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceToken), args.Error(1)
}

// recordingAuditLog captures Record calls so tests can assert on exactly one
// entry per request.
type recordingAuditLog struct {
	entries []*domain.AuditLog
}

func (r *recordingAuditLog) Record(_ context.Context, entry *domain.AuditLog) {
	r.entries = append(r.entries, entry)
}

func (r *recordingAuditLog) List(
	_ context.Context,
	_, _ int,
) ([]*domain.AuditLog, error) {
	return r.entries, nil
}

func (r *recordingAuditLog) CleanOlderThan(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func guardedToken(scope ...domain.ResourceKind) *domain.ServiceToken {
	return &domain.ServiceToken{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "payroll-sync",
		AccountID: 7,
		Scope:     scope,
		IsActive:  true,
	}
}

type guardTestSetup struct {
	router *gin.Engine
	tokens *mockServiceTokenUseCase
	audit  *recordingAuditLog
}

func setupGuardRouter(
	t *testing.T,
	enabled bool,
	allowedIPs []string,
	kind domain.ResourceKind,
	handler gin.HandlerFunc,
) *guardTestSetup {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := &mockServiceTokenUseCase{}
	audit := &recordingAuditLog{}
	guard := NewGuard(tokens, audit, enabled, allowedIPs, discardLogger())

	router := gin.New()
	router.POST("/connector/api/v1/resource", guard.Require(kind), handler)

	return &guardTestSetup{router: router, tokens: tokens, audit: audit}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func performGuardRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/connector/api/v1/resource", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGuard_KillSwitch(t *testing.T) {
	setup := setupGuardRouter(t, false, nil, domain.ResourceKindLeave, okHandler)

	recorder := performGuardRequest(setup.router, "any-token")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	setup.tokens.AssertNotCalled(t, "Authenticate")

	require.Len(t, setup.audit.entries, 1)
	entry := setup.audit.entries[0]
	assert.Equal(t, http.StatusServiceUnavailable, entry.StatusCode)
	assert.Equal(t, "integration disabled", entry.Message)
	assert.Nil(t, entry.AccountID)
	assert.Nil(t, entry.ServiceTokenID)
}

func TestGuard_IPAllowList(t *testing.T) {
	t.Run("RejectedIP", func(t *testing.T) {
		setup := setupGuardRouter(t, true, []string{"203.0.113.9"}, domain.ResourceKindLeave, okHandler)

		recorder := performGuardRequest(setup.router, "any-token")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		setup.tokens.AssertNotCalled(t, "Authenticate")

		require.Len(t, setup.audit.entries, 1)
		assert.Equal(t, http.StatusForbidden, setup.audit.entries[0].StatusCode)
	})

	t.Run("EmptyListAdmitsAnyIP", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "valid-token").
			Return(guardedToken(), nil)

		recorder := performGuardRequest(setup.router, "valid-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestGuard_TokenChecks(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, okHandler)

		recorder := performGuardRequest(setup.router, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		setup.tokens.AssertNotCalled(t, "Authenticate")

		require.Len(t, setup.audit.entries, 1)
		assert.Equal(t, "missing bearer token", setup.audit.entries[0].Message)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "bad-token").
			Return(nil, domain.ErrInvalidServiceToken)

		recorder := performGuardRequest(setup.router, "bad-token")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		require.Len(t, setup.audit.entries, 1)
		assert.Equal(t, http.StatusUnauthorized, setup.audit.entries[0].StatusCode)
	})
}

func TestGuard_ScopeCheck(t *testing.T) {
	t.Run("OutOfScopeKindRejected", func(t *testing.T) {
		token := guardedToken(domain.ResourceKindLeave)
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindPayslip, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "valid-token").Return(token, nil)

		recorder := performGuardRequest(setup.router, "valid-token")

		assert.Equal(t, http.StatusForbidden, recorder.Code)

		require.Len(t, setup.audit.entries, 1)
		entry := setup.audit.entries[0]
		assert.Equal(t, http.StatusForbidden, entry.StatusCode)
		assert.Equal(t, "resource kind not in token scope", entry.Message)
		require.NotNil(t, entry.AccountID)
		assert.Equal(t, int64(7), *entry.AccountID)
		require.NotNil(t, entry.ServiceTokenID)
		assert.Equal(t, token.ID, *entry.ServiceTokenID)
	})

	t.Run("EmptyScopeGrantsEveryKind", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindPayslip, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "valid-token").
			Return(guardedToken(), nil)

		recorder := performGuardRequest(setup.router, "valid-token")

		assert.Equal(t, http.StatusOK, recorder.Code)

		require.Len(t, setup.audit.entries, 1)
		assert.Equal(t, http.StatusOK, setup.audit.entries[0].StatusCode)
		assert.Equal(t, "ok", setup.audit.entries[0].Message)
	})

	t.Run("MatchingScopeAdmitted", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "valid-token").
			Return(guardedToken(domain.ResourceKindLeave), nil)

		recorder := performGuardRequest(setup.router, "valid-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("NoDeclaredKindSkipsScopeCheck", func(t *testing.T) {
		setup := setupGuardRouter(t, true, nil, domain.ResourceKindNone, okHandler)
		setup.tokens.On("Authenticate", mock.Anything, "valid-token").
			Return(guardedToken(domain.ResourceKindLeave), nil)

		recorder := performGuardRequest(setup.router, "valid-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestGuard_HandlerPanic(t *testing.T) {
	token := guardedToken()
	setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, func(c *gin.Context) {
		panic("unexpected fault")
	})
	setup.tokens.On("Authenticate", mock.Anything, "valid-token").Return(token, nil)

	recorder := performGuardRequest(setup.router, "valid-token")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "internal_error")

	require.Len(t, setup.audit.entries, 1)
	entry := setup.audit.entries[0]
	assert.Equal(t, http.StatusInternalServerError, entry.StatusCode)
	assert.Equal(t, "handler panicked", entry.Message)
	require.NotNil(t, entry.ServiceTokenID)
	assert.Equal(t, token.ID, *entry.ServiceTokenID)
}

func TestGuard_ResolvedTokenInContext(t *testing.T) {
	token := guardedToken(domain.ResourceKindEmployee)
	setup := setupGuardRouter(t, true, nil, domain.ResourceKindEmployee, func(c *gin.Context) {
		resolved, ok := GetServiceToken(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, token.ID, resolved.ID)
		assert.Equal(t, int64(7), resolved.AccountID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	setup.tokens.On("Authenticate", mock.Anything, "valid-token").Return(token, nil)

	recorder := performGuardRequest(setup.router, "valid-token")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGuard_ExactlyOneAuditEntryPerCall(t *testing.T) {
	setup := setupGuardRouter(t, true, nil, domain.ResourceKindLeave, okHandler)
	setup.tokens.On("Authenticate", mock.Anything, "valid-token").
		Return(guardedToken(), nil)

	performGuardRequest(setup.router, "valid-token")
	performGuardRequest(setup.router, "")
	performGuardRequest(setup.router, "valid-token")

	assert.Len(t, setup.audit.entries, 3)
}
