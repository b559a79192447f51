package recurring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// PauseRecurringTransactionInput represents the input for pausing a template.
type PauseRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// PauseRecurringTransactionOutput represents the output of pausing a template.
type PauseRecurringTransactionOutput struct {
	RecurringTransaction *RecurringTransactionOutput
}

// PauseRecurringTransactionUseCase deactivates a template and disarms its timer.
type PauseRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
	clock     adapter.Clock
}

// NewPauseRecurringTransactionUseCase creates a new PauseRecurringTransactionUseCase instance.
func NewPauseRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
	clock adapter.Clock,
) *PauseRecurringTransactionUseCase {
	return &PauseRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
		clock:     clock,
	}
}

// Execute pauses the template. Pausing an already paused template is a no-op.
func (uc *PauseRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input PauseRecurringTransactionInput,
) (*PauseRecurringTransactionOutput, error) {
	var recurring *entity.RecurringTransaction

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		recurring, err = repos.Recurring.FindByIDForUpdate(ctx, input.RecurringID)
		if err != nil {
			return mapFindError(err)
		}
		if recurring.UserID != input.UserID {
			return notAuthorizedError()
		}
		if !recurring.IsActive {
			return nil
		}

		recurring.Pause()
		if err := repos.Recurring.Update(ctx, recurring); err != nil {
			return fmt.Errorf("failed to pause recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.scheduler.Cancel(recurring.ID)
	slog.Info("Recurring transaction paused",
		"recurringID", recurring.ID,
		"nextDueDate", recurring.NextDueDate,
	)

	return &PauseRecurringTransactionOutput{
		RecurringTransaction: toOutput(recurring, uc.clock.Now().UTC()),
	}, nil
}
