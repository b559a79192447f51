package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// ListRecurringTransactionsInput represents the input for listing templates.
type ListRecurringTransactionsInput struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// ListRecurringTransactionsOutput represents the output of listing templates.
type ListRecurringTransactionsOutput struct {
	RecurringTransactions []*RecurringTransactionOutput
}

// ListRecurringTransactionsUseCase lists a user's templates ordered by next due date.
type ListRecurringTransactionsUseCase struct {
	recurringRepo adapter.RecurringTransactionRepository
	clock         adapter.Clock
}

// NewListRecurringTransactionsUseCase creates a new ListRecurringTransactionsUseCase instance.
func NewListRecurringTransactionsUseCase(
	recurringRepo adapter.RecurringTransactionRepository,
	clock adapter.Clock,
) *ListRecurringTransactionsUseCase {
	return &ListRecurringTransactionsUseCase{
		recurringRepo: recurringRepo,
		clock:         clock,
	}
}

// Execute lists the templates.
func (uc *ListRecurringTransactionsUseCase) Execute(
	ctx context.Context,
	input ListRecurringTransactionsInput,
) (*ListRecurringTransactionsOutput, error) {
	var (
		templates []*entity.RecurringTransaction
		err       error
	)
	if input.ActiveOnly {
		templates, err = uc.recurringRepo.FindActiveByUser(ctx, input.UserID)
	} else {
		templates, err = uc.recurringRepo.FindByUser(ctx, input.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}

	now := uc.clock.Now().UTC()
	outputs := make([]*RecurringTransactionOutput, len(templates))
	for i, r := range templates {
		outputs[i] = toOutput(r, now)
	}

	return &ListRecurringTransactionsOutput{RecurringTransactions: outputs}, nil
}
