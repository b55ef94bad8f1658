// Package usecase defines business logic for portal authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
)

// UserRepository defines persistence operations for portal users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user in the repository.
	Create(ctx context.Context, user *authDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*authDomain.User, error)

	// SetResetToken stores the hashed password-reset token and its expiry.
	// Issuing a new token replaces any previous one.
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error

	// ConsumeResetToken atomically sets a new password and clears the reset
	// token for the active user holding the given unexpired token hash.
	// Returns false when no matching token exists.
	ConsumeResetToken(ctx context.Context, tokenHash, hashedPassword string, now time.Time) (bool, error)
}

// AuthUseCase defines business logic operations for portal authentication.
type AuthUseCase interface {
	// Login verifies email and password and returns a fresh token pair.
	// Failed lookups and password mismatches are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error)

	// Refresh exchanges a valid refresh token for a fresh token pair.
	// Privileges are re-derived from the current user record, so a demoted
	// admin does not keep admin access through old refresh tokens.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)

	// Authenticate validates an access token and returns the current user record.
	Authenticate(ctx context.Context, accessToken string) (*authDomain.User, error)

	// RequestPasswordReset issues a single-use reset token and emails a reset
	// link to the user. Unknown and inactive addresses are acknowledged without
	// revealing whether an account exists; mail delivery failures are returned.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets the new password.
	// Returns ErrInvalidResetToken for unknown, expired, or already used tokens.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// CreateUser registers a new portal user with a hashed password.
	CreateUser(ctx context.Context, input *CreateUserInput) (*authDomain.User, error)
}

// CreateUserInput contains the parameters for registering a portal user.
type CreateUserInput struct {
	TenantID   uuid.UUID
	Email      string
	FullName   string
	Password   string
	IsAdmin    bool
	EmployeeID *int64
}
