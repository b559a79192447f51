package recurring

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
)

// GetRecurringTransactionInput represents the input for fetching one template.
type GetRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// GetRecurringTransactionOutput represents the output of fetching one template.
type GetRecurringTransactionOutput struct {
	RecurringTransaction *RecurringTransactionOutput
}

// GetRecurringTransactionUseCase retrieves a template owned by the user.
type GetRecurringTransactionUseCase struct {
	recurringRepo adapter.RecurringTransactionRepository
	clock         adapter.Clock
}

// NewGetRecurringTransactionUseCase creates a new GetRecurringTransactionUseCase instance.
func NewGetRecurringTransactionUseCase(
	recurringRepo adapter.RecurringTransactionRepository,
	clock adapter.Clock,
) *GetRecurringTransactionUseCase {
	return &GetRecurringTransactionUseCase{
		recurringRepo: recurringRepo,
		clock:         clock,
	}
}

// Execute fetches the template.
func (uc *GetRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input GetRecurringTransactionInput,
) (*GetRecurringTransactionOutput, error) {
	recurring, err := uc.recurringRepo.FindByID(ctx, input.RecurringID)
	if err != nil {
		return nil, mapFindError(err)
	}

	// Other users' templates are reported as missing.
	if recurring.UserID != input.UserID {
		return nil, notFoundError()
	}

	return &GetRecurringTransactionOutput{
		RecurringTransaction: toOutput(recurring, uc.clock.Now().UTC()),
	}, nil
}
