// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction update.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	AccountID     *uuid.UUID
	CategoryID    *uuid.UUID
	Date          *time.Time
	Description   *string
	Amount        *decimal.Decimal
	Type          *entity.TransactionType
	PaymentMethod *entity.PaymentMethod
	Location      *string
	Notes         *string
	Receipt       *string
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *TransactionOutput
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	uow    adapter.UnitOfWork
	ledger *ledger.Updater
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(uow adapter.UnitOfWork, ledgerUpdater *ledger.Updater) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		uow:    uow,
		ledger: ledgerUpdater,
	}
}

// Execute performs the transaction update and moves its budget contribution
// from the old values to the new ones.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	var transaction *entity.Transaction

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		transaction, err = findOwnedTransaction(ctx, repos.Transactions, input.TransactionID, input.UserID)
		if err != nil {
			return err
		}
		before := *transaction

		if input.Date != nil {
			transaction.Date = input.Date.UTC()
		}

		if input.Description != nil {
			if len(*input.Description) > MaxDescriptionLength {
				return domainerror.NewTransactionError(
					domainerror.ErrCodeDescriptionTooLong,
					fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
					domainerror.ErrDescriptionTooLong,
				)
			}
			transaction.Description = *input.Description
		}

		if input.Amount != nil {
			if err := validateAmount(*input.Amount); err != nil {
				return err
			}
			transaction.Amount = *input.Amount
		}

		if input.Type != nil {
			if err := validateType(*input.Type); err != nil {
				return err
			}
			transaction.Type = *input.Type
		}

		if input.PaymentMethod != nil {
			if err := validatePaymentMethod(*input.PaymentMethod); err != nil {
				return err
			}
			transaction.PaymentMethod = *input.PaymentMethod
		}

		if input.AccountID != nil {
			if err := checkAccount(ctx, repos.Accounts, *input.AccountID, input.UserID); err != nil {
				return err
			}
			transaction.AccountID = *input.AccountID
		}

		// Handle category update
		if input.CategoryID != nil && *input.CategoryID != transaction.CategoryID {
			category, err := findOwnedCategory(ctx, repos.Categories, *input.CategoryID, input.UserID)
			if err != nil {
				return err
			}
			transaction.CategoryID = category.ID
			transaction.CategoryName = category.Name
		}

		if input.Location != nil {
			transaction.Location = *input.Location
		}

		if input.Notes != nil {
			if len(*input.Notes) > MaxNotesLength {
				return domainerror.NewTransactionError(
					domainerror.ErrCodeNotesTooLong,
					fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
					domainerror.ErrNotesTooLong,
				)
			}
			transaction.Notes = *input.Notes
		}

		if input.Receipt != nil {
			transaction.Receipt = *input.Receipt
		}

		transaction.UpdatedAt = time.Now().UTC()

		if err := repos.Transactions.Update(ctx, transaction); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		return uc.ledger.Apply(ctx, repos.Budgets, ledger.EditDeltas(&before, transaction)...)
	})
	if err != nil {
		return nil, err
	}

	return &UpdateTransactionOutput{
		Transaction: toTransactionOutput(transaction),
	}, nil
}
