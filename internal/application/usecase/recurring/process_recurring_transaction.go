package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// ProcessOutcome describes what a processing pass did with a template.
type ProcessOutcome string

const (
	ProcessOutcomeMaterialized ProcessOutcome = "materialized"
	ProcessOutcomeNotDue       ProcessOutcome = "not_due"
	ProcessOutcomeInactive     ProcessOutcome = "inactive"
	ProcessOutcomeExpired      ProcessOutcome = "expired"
	ProcessOutcomeNotFound     ProcessOutcome = "not_found"
	// ProcessOutcomeConflict means another invocation advanced the cursor first.
	ProcessOutcomeConflict ProcessOutcome = "conflict"
	// ProcessOutcomeLocked means another instance holds the processing lock.
	ProcessOutcomeLocked ProcessOutcome = "locked"
)

// ProcessRecurringTransactionInput represents the input for processing one template.
type ProcessRecurringTransactionInput struct {
	RecurringID uuid.UUID
}

// ProcessRecurringTransactionOutput represents the output of processing one template.
type ProcessRecurringTransactionOutput struct {
	Outcome       ProcessOutcome
	TransactionID *uuid.UUID
	NextDueDate   *time.Time
}

// ProcessRecurringTransactionUseCase materializes a due template and advances its cursor.
//
// It is safe to invoke any number of times, concurrently, for the same due
// instant: the transaction insert, the ledger update and a compare-and-swap on
// the cursor commit together, so at most one invocation materializes.
type ProcessRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
	locker    adapter.Locker
	clock     adapter.Clock
	ledger    *ledger.Updater
	lockTTL   time.Duration
}

// NewProcessRecurringTransactionUseCase creates a new ProcessRecurringTransactionUseCase instance.
// locker may be nil, in which case only the cursor compare-and-swap guards processing.
func NewProcessRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
	locker adapter.Locker,
	clock adapter.Clock,
	ledgerUpdater *ledger.Updater,
	lockTTL time.Duration,
) *ProcessRecurringTransactionUseCase {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &ProcessRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
		locker:    locker,
		clock:     clock,
		ledger:    ledgerUpdater,
		lockTTL:   lockTTL,
	}
}

// Execute processes the template if it is still active and due.
// Vanished, paused, not-yet-due and expired templates are reported through
// the outcome, never as errors.
func (uc *ProcessRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input ProcessRecurringTransactionInput,
) (*ProcessRecurringTransactionOutput, error) {
	logger := slog.With("recurringID", input.RecurringID)

	if uc.locker != nil {
		release, acquired, err := uc.locker.TryLock(ctx, LockKey(input.RecurringID), uc.lockTTL)
		switch {
		case err != nil:
			logger.Warn("Processing lock unavailable, relying on cursor check", "error", err)
		case !acquired:
			logger.Debug("Recurring transaction is being processed elsewhere")
			return &ProcessRecurringTransactionOutput{Outcome: ProcessOutcomeLocked}, nil
		default:
			defer release()
		}
	}

	now := uc.clock.Now().UTC()
	output := &ProcessRecurringTransactionOutput{}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		recurring, err := repos.Recurring.FindByIDForUpdate(ctx, input.RecurringID)
		if err != nil {
			if errors.Is(err, domainerror.ErrRecurringTransactionNotFound) {
				output.Outcome = ProcessOutcomeNotFound
				return nil
			}
			return fmt.Errorf("failed to find recurring transaction: %w", err)
		}

		if !recurring.IsActive {
			output.Outcome = ProcessOutcomeInactive
			return nil
		}

		if !recurring.IsDue(now) {
			next := recurring.NextDueDate
			output.Outcome = ProcessOutcomeNotDue
			output.NextDueDate = &next
			return nil
		}

		if recurring.HasExpired(now) {
			recurring.Expire()
			if err := repos.Recurring.Update(ctx, recurring); err != nil {
				return fmt.Errorf("failed to expire recurring transaction: %w", err)
			}
			output.Outcome = ProcessOutcomeExpired
			return nil
		}

		transaction := recurring.Materialize(now)
		if err := repos.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if err := uc.ledger.Apply(ctx, repos.Budgets, ledger.CreateDeltas(transaction)...); err != nil {
			return err
		}

		expected := recurring.NextDueDate
		if err := recurring.Advance(now); err != nil {
			return err
		}

		advanced, err := repos.Recurring.AdvanceCursor(ctx, recurring.ID, expected, recurring.NextDueDate, now)
		if err != nil {
			return fmt.Errorf("failed to advance recurring transaction: %w", err)
		}
		if !advanced {
			return domainerror.ErrCursorMoved
		}

		next := recurring.NextDueDate
		output.Outcome = ProcessOutcomeMaterialized
		output.TransactionID = &transaction.ID
		output.NextDueDate = &next
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrCursorMoved) {
			logger.Info("Recurring transaction already processed concurrently")
			return &ProcessRecurringTransactionOutput{Outcome: ProcessOutcomeConflict}, nil
		}
		logger.Error("Failed to process recurring transaction", "error", err)
		return nil, err
	}

	switch output.Outcome {
	case ProcessOutcomeMaterialized, ProcessOutcomeNotDue:
		uc.scheduler.ScheduleAfter(input.RecurringID, output.NextDueDate.Sub(now))
	case ProcessOutcomeInactive, ProcessOutcomeExpired, ProcessOutcomeNotFound:
		uc.scheduler.Cancel(input.RecurringID)
	}

	if output.Outcome == ProcessOutcomeMaterialized {
		logger.Info("Recurring transaction materialized",
			"transactionID", *output.TransactionID,
			"nextDueDate", *output.NextDueDate,
		)
	} else {
		logger.Debug("Recurring transaction not materialized", "outcome", output.Outcome)
	}

	return output, nil
}
