// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
)

// TokenPairResponse contains the result of a login or refresh exchange.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

// UserResponse represents a portal user in API responses (excludes credentials).
type UserResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	IsActive   bool      `json:"is_active"`
	IsAdmin    bool      `json:"is_admin"`
	EmployeeID *int64    `json:"employee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *authDomain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		TenantID:   user.TenantID.String(),
		Email:      user.Email,
		FullName:   user.FullName,
		IsActive:   user.IsActive,
		IsAdmin:    user.IsAdmin,
		EmployeeID: user.EmployeeID,
		CreatedAt:  user.CreatedAt,
	}
}

// AcknowledgeResponse is returned by endpoints that never reveal whether the
// target account exists.
type AcknowledgeResponse struct {
	Message string `json:"message"`
}
