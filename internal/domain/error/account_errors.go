// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Account domain errors.
var (
	// ErrAccountNotFound is returned when an account is not found in the system.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotAuthorizedToModifyAccount is returned when user is not authorized to modify an account.
	ErrNotAuthorizedToModifyAccount = errors.New("not authorized to modify account")

	// ErrAccountLimitReached is returned when a user already holds the maximum number of accounts.
	ErrAccountLimitReached = errors.New("maximum number of accounts reached")

	// ErrCannotDeleteLastAccount is returned when deleting the only account of a user.
	ErrCannotDeleteLastAccount = errors.New("cannot delete the last account")

	// ErrAccountNameTooLong is returned when the account name exceeds the maximum length.
	ErrAccountNameTooLong = errors.New("account name too long")

	// ErrAccountDescriptionTooLong is returned when the account description exceeds the maximum length.
	ErrAccountDescriptionTooLong = errors.New("account description too long")

	// ErrInvalidCurrency is returned when the currency is not a three-letter code.
	ErrInvalidCurrency = errors.New("invalid currency")
)

// AccountErrorCode defines error codes for account errors.
// Format: ACC-XXYYYY where XX is category and YYYY is specific error.
type AccountErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeAccountNotFound        AccountErrorCode = "ACC-010001"
	ErrCodeNotAuthorizedAccount   AccountErrorCode = "ACC-010002"
	ErrCodeAccountLimitReached    AccountErrorCode = "ACC-010003"
	ErrCodeLastAccount            AccountErrorCode = "ACC-010004"
	ErrCodeMissingAccountFields   AccountErrorCode = "ACC-010005"
	ErrCodeAccountNameTooLong     AccountErrorCode = "ACC-010006"
	ErrCodeInvalidAccountColor    AccountErrorCode = "ACC-010007"
	ErrCodeInvalidAccountCurrency AccountErrorCode = "ACC-010008"
	ErrCodeAccountDescTooLong     AccountErrorCode = "ACC-010009"
)

// AccountError represents an account error with code and message.
type AccountError struct {
	Code    AccountErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AccountError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AccountError) Unwrap() error {
	return e.Err
}

// NewAccountError creates a new AccountError with the given code and message.
func NewAccountError(code AccountErrorCode, message string, err error) *AccountError {
	return &AccountError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
