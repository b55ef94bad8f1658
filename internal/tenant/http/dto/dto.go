// Package dto provides data transfer objects for tenant admin HTTP handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	tenantDomain "github.com/allisson/hrgate/internal/tenant/domain"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// UpsertCredentialRequest contains the parameters for configuring a tenant's
// downstream credential.
type UpsertCredentialRequest struct {
	BaseURL   string `json:"base_url"`
	AccountID int64  `json:"account_id"`
	APIKey    string `json:"api_key"`
}

// Validate checks if the upsert credential request is valid.
func (r *UpsertCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BaseURL,
			validation.Required,
			customValidation.AbsoluteURL,
		),
		validation.Field(&r.AccountID,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&r.APIKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// CredentialResponse represents a tenant credential in API responses.
// The API key is never returned, only whether one is configured.
type CredentialResponse struct {
	TenantID   string    `json:"tenant_id"`
	BaseURL    string    `json:"base_url"`
	AccountID  int64     `json:"account_id"`
	Configured bool      `json:"configured"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MapCredentialToResponse converts a domain credential to an API response.
func MapCredentialToResponse(credential *tenantDomain.Credential) CredentialResponse {
	return CredentialResponse{
		TenantID:   credential.TenantID.String(),
		BaseURL:    credential.BaseURL,
		AccountID:  credential.AccountID,
		Configured: credential.EncryptedAPIKey != "",
		UpdatedAt:  credential.UpdatedAt,
	}
}
