// Package domain defines the entities of the inbound connector: service
// tokens presented by external HR integrations and the audit trail of every
// inbound call.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/hrgate/internal/errors"
)

// ResourceKind names a category of HR resources an inbound call can declare.
// Service token scopes are sets of resource kinds.
type ResourceKind string

// Resource kinds accepted in service token scopes.
const (
	ResourceKindEmployee   ResourceKind = "hr.employee"
	ResourceKindLeaveType  ResourceKind = "hr.leave.type"
	ResourceKindLeave      ResourceKind = "hr.leave"
	ResourceKindPayslip    ResourceKind = "hr.payslip"
	ResourceKindExpense    ResourceKind = "hr.expense"
	ResourceKindAttendance ResourceKind = "hr.attendance"
	ResourceKindAttachment ResourceKind = "ir.attachment"
)

// ResourceKindNone marks an operation that declares no resource kind. Scope
// checks do not apply to such operations.
const ResourceKindNone ResourceKind = ""

var knownResourceKinds = map[ResourceKind]struct{}{
	ResourceKindEmployee:   {},
	ResourceKindLeaveType:  {},
	ResourceKindLeave:      {},
	ResourceKindPayslip:    {},
	ResourceKindExpense:    {},
	ResourceKindAttendance: {},
	ResourceKindAttachment: {},
}

// IsValid reports whether the resource kind is one of the known kinds.
func (r ResourceKind) IsValid() bool {
	_, ok := knownResourceKinds[r]
	return ok
}

// ValidateScope checks that every resource kind in a scope set is known.
// An empty scope is valid and means unrestricted.
func ValidateScope(scope []ResourceKind) error {
	for _, kind := range scope {
		if !kind.IsValid() {
			return apperrors.Wrap(ErrInvalidResourceKind, string(kind))
		}
	}
	return nil
}

// ServiceToken is a credential presented by an external HR integration.
// Only the SHA-256 hash of the token value is stored; the plain value is
// shown once at creation or rotation and never again.
type ServiceToken struct {
	ID         uuid.UUID
	Name       string
	AccountID  int64
	TokenHash  string
	Scope      []ResourceKind
	IsActive   bool
	LastUsedAt *time.Time
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Allows reports whether the token's scope permits an operation declaring
// the given resource kind. An empty scope set is unrestricted; a non-empty
// scope set must contain the kind. Operations declaring no kind are always
// permitted.
func (t *ServiceToken) Allows(kind ResourceKind) bool {
	if kind == ResourceKindNone {
		return true
	}
	if len(t.Scope) == 0 {
		return true
	}
	for _, allowed := range t.Scope {
		if allowed == kind {
			return true
		}
	}
	return false
}

// AuditLog is one immutable record of an inbound connector call. AccountID
// and ServiceTokenID are nil when the call was rejected before the token
// resolved.
type AuditLog struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	AccountID      *int64
	ServiceTokenID *uuid.UUID
	Endpoint       string
	Method         string
	RequestIP      string
	StatusCode     int
	Message        string
	DurationMS     int64
}
