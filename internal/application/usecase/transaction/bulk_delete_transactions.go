// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// BulkDeleteTransactionsInput represents the input for bulk transaction deletion.
type BulkDeleteTransactionsInput struct {
	TransactionIDs []uuid.UUID
	UserID         uuid.UUID
}

// BulkDeleteTransactionsOutput represents the output of bulk transaction deletion.
type BulkDeleteTransactionsOutput struct {
	DeletedCount int64
}

// BulkDeleteTransactionsUseCase deletes several transactions in one unit of work.
type BulkDeleteTransactionsUseCase struct {
	uow    adapter.UnitOfWork
	ledger *ledger.Updater
}

// NewBulkDeleteTransactionsUseCase creates a new BulkDeleteTransactionsUseCase instance.
func NewBulkDeleteTransactionsUseCase(uow adapter.UnitOfWork, ledgerUpdater *ledger.Updater) *BulkDeleteTransactionsUseCase {
	return &BulkDeleteTransactionsUseCase{
		uow:    uow,
		ledger: ledgerUpdater,
	}
}

// Execute deletes every listed transaction, or none if any is missing or foreign.
func (uc *BulkDeleteTransactionsUseCase) Execute(ctx context.Context, input BulkDeleteTransactionsInput) (*BulkDeleteTransactionsOutput, error) {
	// Validate that IDs list is not empty
	if len(input.TransactionIDs) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"transaction IDs list cannot be empty",
			nil,
		)
	}

	var deleted int64
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		for _, id := range input.TransactionIDs {
			transaction, err := findOwnedTransaction(ctx, repos.Transactions, id, input.UserID)
			if err != nil {
				return err
			}
			if err := repos.Transactions.Delete(ctx, transaction.ID); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			if err := uc.ledger.Apply(ctx, repos.Budgets, ledger.DeleteDeltas(transaction)...); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BulkDeleteTransactionsOutput{
		DeletedCount: deleted,
	}, nil
}
