// Package dto provides data transfer objects for the inbound connector API
// and the audit log administration endpoint.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/hrgate/internal/connector/domain"
	customValidation "github.com/allisson/hrgate/internal/validation"
)

// LinkEmployeeRequest represents the request to bind a portal user to an HR
// employee record. A zero employee_id clears the binding.
type LinkEmployeeRequest struct {
	Email      string `json:"email"`
	EmployeeID int64  `json:"employee_id"`
}

// Validate validates the link request.
func (r LinkEmployeeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, customValidation.Email),
		validation.Field(&r.EmployeeID, validation.Min(int64(0))),
	)
}

// PingResponse represents the connectivity probe response.
type PingResponse struct {
	Status string `json:"status"`
}

// AcknowledgeResponse represents a generic success acknowledgement.
type AcknowledgeResponse struct {
	Message string `json:"message"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	AccountID      *int64    `json:"account_id,omitempty"`
	ServiceTokenID *string   `json:"service_token_id,omitempty"`
	Endpoint       string    `json:"endpoint"`
	Method         string    `json:"method"`
	RequestIP      string    `json:"request_ip"`
	StatusCode     int       `json:"status_code"`
	Message        string    `json:"message"`
	DurationMS     int64     `json:"duration_ms"`
}

// MapAuditLogToResponse converts an AuditLog domain object to an AuditLogResponse.
func MapAuditLogToResponse(entry *domain.AuditLog) *AuditLogResponse {
	response := &AuditLogResponse{
		ID:         entry.ID.String(),
		CreatedAt:  entry.CreatedAt,
		AccountID:  entry.AccountID,
		Endpoint:   entry.Endpoint,
		Method:     entry.Method,
		RequestIP:  entry.RequestIP,
		StatusCode: entry.StatusCode,
		Message:    entry.Message,
		DurationMS: entry.DurationMS,
	}
	if entry.ServiceTokenID != nil {
		id := entry.ServiceTokenID.String()
		response.ServiceTokenID = &id
	}
	return response
}

// AuditLogListResponse represents a page of audit log entries.
type AuditLogListResponse struct {
	AuditLogs []*AuditLogResponse `json:"audit_logs"`
	Offset    int                 `json:"offset"`
	Limit     int                 `json:"limit"`
}
