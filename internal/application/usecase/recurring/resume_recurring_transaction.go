package recurring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// ResumeRecurringTransactionInput represents the input for resuming a template.
type ResumeRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// ResumeRecurringTransactionOutput represents the output of resuming a template.
type ResumeRecurringTransactionOutput struct {
	RecurringTransaction *RecurringTransactionOutput
}

// ResumeRecurringTransactionUseCase reactivates a paused or expired template.
type ResumeRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
	clock     adapter.Clock
}

// NewResumeRecurringTransactionUseCase creates a new ResumeRecurringTransactionUseCase instance.
func NewResumeRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
	clock adapter.Clock,
) *ResumeRecurringTransactionUseCase {
	return &ResumeRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
		clock:     clock,
	}
}

// Execute restarts the template one period from now. Missed periods are not materialized.
func (uc *ResumeRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input ResumeRecurringTransactionInput,
) (*ResumeRecurringTransactionOutput, error) {
	now := uc.clock.Now().UTC()
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
		if recurring.IsActive {
			return domainerror.NewRecurringError(
				domainerror.ErrCodeRecurringAlreadyActive,
				"recurring transaction is already active",
				domainerror.ErrRecurringAlreadyActive,
			)
		}

		if err := recurring.Resume(now); err != nil {
			return err
		}
		if err := repos.Recurring.Update(ctx, recurring); err != nil {
			return fmt.Errorf("failed to resume recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.scheduler.ScheduleAfter(recurring.ID, recurring.DelayUntilDue(now))
	slog.Info("Recurring transaction resumed",
		"recurringID", recurring.ID,
		"nextDueDate", recurring.NextDueDate,
	)

	return &ResumeRecurringTransactionOutput{
		RecurringTransaction: toOutput(recurring, now),
	}, nil
}
