package recurring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
)

// DeleteRecurringTransactionInput represents the input for template deletion.
type DeleteRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// DeleteRecurringTransactionUseCase removes a template. Transactions it already
// materialized are kept as they are.
type DeleteRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
}

// NewDeleteRecurringTransactionUseCase creates a new DeleteRecurringTransactionUseCase instance.
func NewDeleteRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
) *DeleteRecurringTransactionUseCase {
	return &DeleteRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
	}
}

// Execute performs the template deletion.
func (uc *DeleteRecurringTransactionUseCase) Execute(ctx context.Context, input DeleteRecurringTransactionInput) error {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		recurring, err := repos.Recurring.FindByIDForUpdate(ctx, input.RecurringID)
		if err != nil {
			return mapFindError(err)
		}
		if recurring.UserID != input.UserID {
			return notAuthorizedError()
		}

		if err := repos.Recurring.Delete(ctx, recurring.ID); err != nil {
			return fmt.Errorf("failed to delete recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.scheduler.Cancel(input.RecurringID)
	slog.Info("Recurring transaction deleted", "recurringID", input.RecurringID)

	return nil
}
