// Package recurring contains recurring transaction use cases.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for template descriptions.
	MaxDescriptionLength = 255
	// MaxNotesLength is the maximum allowed length for template notes.
	MaxNotesLength = 1000
)

// DefaultLockTTL bounds how long a processing lock is held if its owner dies.
const DefaultLockTTL = 30 * time.Second

// LockKey returns the lock key guarding the processing of one template.
func LockKey(id uuid.UUID) string {
	return "recurring:process:" + id.String()
}

// RecurringTransactionOutput represents a recurring template in use case outputs.
type RecurringTransactionOutput struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	CategoryName  string
	Description   string
	Amount        decimal.Decimal
	Type          entity.TransactionType
	PaymentMethod entity.PaymentMethod
	Location      string
	Notes         string
	Receipt       string
	Frequency     entity.Frequency
	StartDate     time.Time
	EndDate       *time.Time
	NextDueDate   time.Time
	LastProcessed *time.Time
	IsActive      bool
	State         entity.RecurringState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func toOutput(r *entity.RecurringTransaction, now time.Time) *RecurringTransactionOutput {
	return &RecurringTransactionOutput{
		ID:            r.ID,
		UserID:        r.UserID,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		CategoryName:  r.CategoryName,
		Description:   r.Description,
		Amount:        r.Amount,
		Type:          r.Type,
		PaymentMethod: r.PaymentMethod,
		Location:      r.Location,
		Notes:         r.Notes,
		Receipt:       r.Receipt,
		Frequency:     r.Frequency,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		NextDueDate:   r.NextDueDate,
		LastProcessed: r.LastProcessed,
		IsActive:      r.IsActive,
		State:         r.State(now),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func notFoundError() error {
	return domainerror.NewRecurringError(
		domainerror.ErrCodeRecurringNotFound,
		"recurring transaction not found",
		domainerror.ErrRecurringTransactionNotFound,
	)
}

func notAuthorizedError() error {
	return domainerror.NewRecurringError(
		domainerror.ErrCodeNotAuthorizedRecurring,
		"not authorized to modify this recurring transaction",
		domainerror.ErrNotAuthorizedToModifyRecurring,
	)
}

func categoryNotFoundError() error {
	return domainerror.NewRecurringError(
		domainerror.ErrCodeRecurringCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFound,
	)
}

// checkAccount verifies accountID names an account of userID.
func checkAccount(ctx context.Context, accounts adapter.AccountRepository, accountID, userID uuid.UUID) error {
	account, err := accounts.FindByID(ctx, accountID)
	if err != nil && !errors.Is(err, domainerror.ErrAccountNotFound) {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if err != nil || account.UserID != userID {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	return nil
}

// mapFindError converts a repository lookup failure into a coded error.
func mapFindError(err error) error {
	if errors.Is(err, domainerror.ErrRecurringTransactionNotFound) {
		return notFoundError()
	}
	return fmt.Errorf("failed to find recurring transaction: %w", err)
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return nil
}

func validateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidRecurringAmount,
		)
	}
	return nil
}

func validatePaymentMethod(method entity.PaymentMethod) error {
	if !method.IsValid() {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidPaymentMethod,
			fmt.Sprintf("invalid payment method: %q", method),
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	return nil
}

func validateEndDate(startDate time.Time, endDate *time.Time) error {
	if endDate != nil && endDate.Before(startDate) {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidEndDate,
			"end date must not be before start date",
			domainerror.ErrInvalidEndDate,
		)
	}
	return nil
}
