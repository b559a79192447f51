// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Recurring transaction domain errors.
var (
	// ErrInvalidFrequency is returned when a cadence value is not DAILY, WEEKLY, MONTHLY or YEARLY.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrRecurringTransactionNotFound is returned when a recurring transaction does not exist.
	ErrRecurringTransactionNotFound = errors.New("recurring transaction not found")

	// ErrNotAuthorizedToModifyRecurring is returned when the template belongs to another user.
	ErrNotAuthorizedToModifyRecurring = errors.New("not authorized to modify recurring transaction")

	// ErrInvalidRecurringAmount is returned when the amount is not strictly positive.
	ErrInvalidRecurringAmount = errors.New("invalid recurring transaction amount")

	// ErrInvalidEndDate is returned when the end date precedes the start date.
	ErrInvalidEndDate = errors.New("end date must not be before start date")

	// ErrInvalidPaymentMethod is returned when the payment method is not supported.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrRecurringAlreadyActive is returned when resuming a template that is not paused.
	ErrRecurringAlreadyActive = errors.New("recurring transaction is already active")

	// ErrCursorMoved is returned when the scheduling cursor changed between read and write.
	ErrCursorMoved = errors.New("recurring transaction cursor moved concurrently")
)

// RecurringErrorCode defines error codes for recurring transaction errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecurringErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidFrequency            RecurringErrorCode = "REC-010001"
	ErrCodeRecurringNotFound           RecurringErrorCode = "REC-010002"
	ErrCodeNotAuthorizedRecurring      RecurringErrorCode = "REC-010003"
	ErrCodeInvalidRecurringAmount      RecurringErrorCode = "REC-010004"
	ErrCodeInvalidEndDate              RecurringErrorCode = "REC-010005"
	ErrCodeInvalidPaymentMethod        RecurringErrorCode = "REC-010006"
	ErrCodeRecurringCategoryNotFound   RecurringErrorCode = "REC-010007"
	ErrCodeInvalidRecurringType        RecurringErrorCode = "REC-010008"
	ErrCodeRecurringDescriptionTooLong RecurringErrorCode = "REC-010009"
	ErrCodeRecurringNotesTooLong       RecurringErrorCode = "REC-010010"
	ErrCodeMissingRecurringFields      RecurringErrorCode = "REC-010011"
	ErrCodeRecurringAlreadyActive      RecurringErrorCode = "REC-010012"
	ErrCodeRecurringAccountNotFound    RecurringErrorCode = "REC-010013"
)

// RecurringError represents a recurring transaction error with code and message.
type RecurringError struct {
	Code    RecurringErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecurringError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecurringError) Unwrap() error {
	return e.Err
}

// NewRecurringError creates a new RecurringError with the given code and message.
func NewRecurringError(code RecurringErrorCode, message string, err error) *RecurringError {
	return &RecurringError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
