// Package dto provides request data transfer objects for HR gateway endpoints.
// Responses are relayed from the HR backend verbatim, so there are no response
// DTOs here.
package dto

import (
	"regexp"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/hrgate/internal/validation"
)

const dateLayout = "2006-01-02"

var amountRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// LeaveRequestRequest represents the request to submit a leave request.
type LeaveRequestRequest struct {
	LeaveTypeID int64  `json:"leave_type_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Note        string `json:"note"`
}

// Validate validates the leave request.
func (r LeaveRequestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LeaveTypeID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.FromDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.ToDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.Note, validation.Length(0, 1000)),
	)
}

// ExpenseRequest represents the form fields of an expense submission. The
// receipt file arrives as a separate multipart part.
type ExpenseRequest struct {
	Description string `form:"description"`
	Amount      string `form:"amount"`
	Date        string `form:"date"`
}

// Validate validates the expense submission fields.
func (r ExpenseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Amount,
			validation.Required,
			validation.Match(amountRegex).Error("must be a positive amount with up to two decimal places"),
		),
		validation.Field(&r.Date, validation.Required, validation.Date(dateLayout)),
	)
}

// DocumentUploadRequest represents the form fields of a document upload. The
// document file arrives as a separate multipart part.
type DocumentUploadRequest struct {
	DocumentType string `form:"document_type"`
}

// Validate validates the document upload fields.
func (r DocumentUploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentType, validation.Required, customValidation.NotBlank),
	)
}
