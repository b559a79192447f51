// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget does not exist.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetCategoryNotFound is returned when a budget category does not exist.
	ErrBudgetCategoryNotFound = errors.New("budget category not found")

	// ErrBudgetAlreadyExists is returned when a budget already exists for the account and month.
	ErrBudgetAlreadyExists = errors.New("budget already exists for this account and month")

	// ErrBudgetCategoryExists is returned when the category is already part of the budget.
	ErrBudgetCategoryExists = errors.New("category already added to budget")

	// ErrInvalidBudgetMonth is returned when the month is not formatted as YYYY-MM.
	ErrInvalidBudgetMonth = errors.New("invalid budget month")

	// ErrInvalidBudgetAmount is returned when a budgeted or spent amount is negative.
	ErrInvalidBudgetAmount = errors.New("invalid budget amount")

	// ErrNotAuthorizedToModifyBudget is returned when the budget belongs to another user.
	ErrNotAuthorizedToModifyBudget = errors.New("not authorized to modify budget")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BUD-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBudgetNotFound         BudgetErrorCode = "BUD-010001"
	ErrCodeBudgetCategoryNotFound BudgetErrorCode = "BUD-010002"
	ErrCodeBudgetAlreadyExists    BudgetErrorCode = "BUD-010003"
	ErrCodeBudgetCategoryExists   BudgetErrorCode = "BUD-010004"
	ErrCodeInvalidBudgetMonth     BudgetErrorCode = "BUD-010005"
	ErrCodeInvalidBudgetAmount    BudgetErrorCode = "BUD-010006"
	ErrCodeNotAuthorizedBudget    BudgetErrorCode = "BUD-010007"
	ErrCodeBudgetCategoryMissing  BudgetErrorCode = "BUD-010008"
	ErrCodeMissingBudgetFields    BudgetErrorCode = "BUD-010009"
	ErrCodeBudgetAccountMissing   BudgetErrorCode = "BUD-010010"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
