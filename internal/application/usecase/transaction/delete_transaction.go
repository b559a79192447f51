// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	uow    adapter.UnitOfWork
	ledger *ledger.Updater
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(uow adapter.UnitOfWork, ledgerUpdater *ledger.Updater) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		uow:    uow,
		ledger: ledgerUpdater,
	}
}

// Execute performs the transaction deletion and reverses its budget contribution.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		transaction, err := findOwnedTransaction(ctx, repos.Transactions, input.TransactionID, input.UserID)
		if err != nil {
			return err
		}

		// Delete the transaction (soft delete)
		if err := repos.Transactions.Delete(ctx, transaction.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		return uc.ledger.Apply(ctx, repos.Budgets, ledger.DeleteDeltas(transaction)...)
	})
	if err != nil {
		return nil, err
	}

	return &DeleteTransactionOutput{
		Success: true,
	}, nil
}
