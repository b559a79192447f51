// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	Type          entity.TransactionType
	PaymentMethod entity.PaymentMethod
	Location      string
	Notes         string
	Receipt       string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *TransactionOutput
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	uow    adapter.UnitOfWork
	ledger *ledger.Updater
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(uow adapter.UnitOfWork, ledgerUpdater *ledger.Updater) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		uow:    uow,
		ledger: ledgerUpdater,
	}
}

// Execute performs the transaction creation and books expenses against the budget.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if input.AccountID == uuid.Nil || input.CategoryID == uuid.Nil || input.Date.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"account, category and date are required",
			nil,
		)
	}

	// Validate description length
	if len(input.Description) > MaxDescriptionLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	// Validate notes length
	if len(input.Notes) > MaxNotesLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}

	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateType(input.Type); err != nil {
		return nil, err
	}
	if err := validatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}

	var transaction *entity.Transaction

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if err := checkAccount(ctx, repos.Accounts, input.AccountID, input.UserID); err != nil {
			return err
		}

		category, err := findOwnedCategory(ctx, repos.Categories, input.CategoryID, input.UserID)
		if err != nil {
			return err
		}

		transaction = entity.NewTransaction(
			input.UserID,
			input.AccountID,
			category,
			input.Description,
			input.Amount,
			input.Type,
			input.PaymentMethod,
			input.Date,
		)
		transaction.Location = input.Location
		transaction.Notes = input.Notes
		transaction.Receipt = input.Receipt

		if err := repos.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return uc.ledger.Apply(ctx, repos.Budgets, ledger.CreateDeltas(transaction)...)
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Transaction created",
		"transactionID", transaction.ID,
		"userID", transaction.UserID,
		"month", transaction.Month(),
	)

	return &CreateTransactionOutput{
		Transaction: toTransactionOutput(transaction),
	}, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func validateType(transactionType entity.TransactionType) error {
	if !transactionType.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}
	return nil
}

func validatePaymentMethod(method entity.PaymentMethod) error {
	if !method.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTxnInvalidPaymentMethod,
			fmt.Sprintf("invalid payment method: %q", method),
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	return nil
}

// findOwnedCategory loads a category and hides categories of other users.
func findOwnedCategory(
	ctx context.Context,
	categories adapter.CategoryRepository,
	categoryID uuid.UUID,
	userID uuid.UUID,
) (*entity.Category, error) {
	category, err := categories.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err != nil || category.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}
	return category, nil
}

// checkAccount verifies accountID names an account of userID.
func checkAccount(ctx context.Context, accounts adapter.AccountRepository, accountID, userID uuid.UUID) error {
	account, err := accounts.FindByID(ctx, accountID)
	if err != nil && !errors.Is(err, domainerror.ErrAccountNotFound) {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if err != nil || account.UserID != userID {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTxnAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	return nil
}

// findOwnedTransaction loads a transaction, locks its row and checks it belongs to userID.
func findOwnedTransaction(
	ctx context.Context,
	transactions adapter.TransactionRepository,
	transactionID uuid.UUID,
	userID uuid.UUID,
) (*entity.Transaction, error) {
	transaction, err := transactions.FindByIDForUpdate(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if transaction.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return transaction, nil
}
