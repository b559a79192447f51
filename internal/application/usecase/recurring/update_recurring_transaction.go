package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// UpdateRecurringTransactionInput represents the input for recurring template update.
// Nil fields are left unchanged.
type UpdateRecurringTransactionInput struct {
	RecurringID   uuid.UUID
	UserID        uuid.UUID
	AccountID     *uuid.UUID
	CategoryID    *uuid.UUID
	Description   *string
	Amount        *decimal.Decimal
	Type          *entity.TransactionType
	PaymentMethod *entity.PaymentMethod
	Frequency     *string
	EndDate       *time.Time
	ClearEndDate  bool // Set to true to remove the end date
	Location      *string
	Notes         *string
	Receipt       *string
}

// UpdateRecurringTransactionOutput represents the output of recurring template update.
type UpdateRecurringTransactionOutput struct {
	RecurringTransaction *RecurringTransactionOutput
}

// UpdateRecurringTransactionUseCase handles recurring template edits.
type UpdateRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
	clock     adapter.Clock
}

// NewUpdateRecurringTransactionUseCase creates a new UpdateRecurringTransactionUseCase instance.
func NewUpdateRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
	clock adapter.Clock,
) *UpdateRecurringTransactionUseCase {
	return &UpdateRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
		clock:     clock,
	}
}

// Execute applies the edit. Only a frequency change moves the cursor and re-arms the timer.
func (uc *UpdateRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input UpdateRecurringTransactionInput,
) (*UpdateRecurringTransactionOutput, error) {
	var (
		recurring    *entity.RecurringTransaction
		cursorMoved  bool
		newFrequency entity.Frequency
	)

	if input.Frequency != nil {
		f, err := entity.ParseFrequency(*input.Frequency)
		if err != nil {
			return nil, err
		}
		newFrequency = f
	}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		recurring, err = repos.Recurring.FindByIDForUpdate(ctx, input.RecurringID)
		if err != nil {
			return mapFindError(err)
		}
		if recurring.UserID != input.UserID {
			return notAuthorizedError()
		}

		if input.Description != nil {
			if err := validateDescription(*input.Description); err != nil {
				return err
			}
			recurring.Description = *input.Description
		}

		if input.Amount != nil {
			if err := validateAmount(*input.Amount); err != nil {
				return err
			}
			recurring.Amount = *input.Amount
		}

		if input.Type != nil {
			if !input.Type.IsValid() {
				return domainerror.NewRecurringError(
					domainerror.ErrCodeInvalidRecurringType,
					"transaction type must be 'expense' or 'income'",
					domainerror.ErrInvalidTransactionType,
				)
			}
			recurring.Type = *input.Type
		}

		if input.PaymentMethod != nil {
			if err := validatePaymentMethod(*input.PaymentMethod); err != nil {
				return err
			}
			recurring.PaymentMethod = *input.PaymentMethod
		}

		if input.AccountID != nil {
			if err := checkAccount(ctx, repos.Accounts, *input.AccountID, input.UserID); err != nil {
				return err
			}
			recurring.AccountID = *input.AccountID
		}

		if input.CategoryID != nil && *input.CategoryID != recurring.CategoryID {
			category, err := repos.Categories.FindByID(ctx, *input.CategoryID)
			if err != nil {
				if errors.Is(err, domainerror.ErrCategoryNotFound) {
					return categoryNotFoundError()
				}
				return fmt.Errorf("failed to find category: %w", err)
			}
			if category.UserID != input.UserID {
				return categoryNotFoundError()
			}
			recurring.ChangeCategory(category)
		}

		if input.ClearEndDate {
			recurring.EndDate = nil
		} else if input.EndDate != nil {
			if err := validateEndDate(recurring.StartDate, input.EndDate); err != nil {
				return err
			}
			end := input.EndDate.UTC()
			recurring.EndDate = &end
		}

		if input.Location != nil {
			recurring.Location = *input.Location
		}

		if input.Notes != nil {
			if err := validateNotes(*input.Notes); err != nil {
				return err
			}
			recurring.Notes = *input.Notes
		}

		if input.Receipt != nil {
			recurring.Receipt = *input.Receipt
		}

		if newFrequency != "" && newFrequency != recurring.Frequency {
			if err := recurring.ChangeFrequency(newFrequency); err != nil {
				return err
			}
			cursorMoved = true
		}

		recurring.UpdatedAt = time.Now().UTC()

		if err := repos.Recurring.Update(ctx, recurring); err != nil {
			return fmt.Errorf("failed to update recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if cursorMoved && recurring.IsActive {
		uc.scheduler.ScheduleAfter(recurring.ID, recurring.DelayUntilDue(now))
		slog.Info("Recurring transaction rescheduled",
			"recurringID", recurring.ID,
			"frequency", recurring.Frequency,
			"nextDueDate", recurring.NextDueDate,
		)
	}

	return &UpdateRecurringTransactionOutput{
		RecurringTransaction: toOutput(recurring, now),
	}, nil
}
