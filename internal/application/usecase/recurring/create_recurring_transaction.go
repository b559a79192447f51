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
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// CreateRecurringTransactionInput represents the input for recurring template creation.
type CreateRecurringTransactionInput struct {
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	Description   string
	Amount        decimal.Decimal
	Type          entity.TransactionType
	PaymentMethod entity.PaymentMethod
	Frequency     string
	StartDate     time.Time
	EndDate       *time.Time
	Location      string
	Notes         string
	Receipt       string

	// CreateInitialTransaction also records the first occurrence right away,
	// dated StartDate and booked against that month, in the same unit of work.
	// The cursor stays one period after StartDate.
	CreateInitialTransaction bool
}

// CreateRecurringTransactionOutput represents the output of recurring template creation.
type CreateRecurringTransactionOutput struct {
	RecurringTransaction *RecurringTransactionOutput
	InitialTransactionID *uuid.UUID
}

// CreateRecurringTransactionUseCase handles recurring template creation logic.
type CreateRecurringTransactionUseCase struct {
	uow       adapter.UnitOfWork
	scheduler adapter.TimerScheduler
	clock     adapter.Clock
	ledger    *ledger.Updater
}

// NewCreateRecurringTransactionUseCase creates a new CreateRecurringTransactionUseCase instance.
func NewCreateRecurringTransactionUseCase(
	uow adapter.UnitOfWork,
	scheduler adapter.TimerScheduler,
	clock adapter.Clock,
	ledgerUpdater *ledger.Updater,
) *CreateRecurringTransactionUseCase {
	return &CreateRecurringTransactionUseCase{
		uow:       uow,
		scheduler: scheduler,
		clock:     clock,
		ledger:    ledgerUpdater,
	}
}

// Execute validates and persists the template, then arms its first timer.
func (uc *CreateRecurringTransactionUseCase) Execute(
	ctx context.Context,
	input CreateRecurringTransactionInput,
) (*CreateRecurringTransactionOutput, error) {
	if input.UserID == uuid.Nil || input.AccountID == uuid.Nil || input.CategoryID == uuid.Nil ||
		input.StartDate.IsZero() {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeMissingRecurringFields,
			"user, account, category and start date are required",
			nil,
		)
	}

	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateNotes(input.Notes); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}
	if err := validatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}
	frequency, err := entity.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}
	if err := validateEndDate(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	var (
		recurring *entity.RecurringTransaction
		initialID *uuid.UUID
	)

	err = uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if err := checkAccount(ctx, repos.Accounts, input.AccountID, input.UserID); err != nil {
			return err
		}

		category, err := repos.Categories.FindByID(ctx, input.CategoryID)
		if err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return categoryNotFoundError()
			}
			return fmt.Errorf("failed to find category: %w", err)
		}
		if category.UserID != input.UserID {
			return categoryNotFoundError()
		}

		recurring, err = entity.NewRecurringTransaction(
			input.UserID,
			input.AccountID,
			category,
			input.Description,
			input.Amount,
			input.Type,
			input.PaymentMethod,
			frequency,
			input.StartDate,
			input.EndDate,
		)
		if err != nil {
			return err
		}
		recurring.Location = input.Location
		recurring.Notes = input.Notes
		recurring.Receipt = input.Receipt

		if err := repos.Recurring.Create(ctx, recurring); err != nil {
			return fmt.Errorf("failed to create recurring transaction: %w", err)
		}

		if !input.CreateInitialTransaction {
			return nil
		}

		transaction := recurring.Materialize(input.StartDate)
		if err := repos.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create initial transaction: %w", err)
		}
		if err := uc.ledger.Apply(ctx, repos.Budgets, ledger.CreateDeltas(transaction)...); err != nil {
			return err
		}
		initialID = &transaction.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	delay := recurring.DelayUntilDue(now)
	uc.scheduler.ScheduleAfter(recurring.ID, delay)

	slog.Info("Recurring transaction created",
		"recurringID", recurring.ID,
		"userID", recurring.UserID,
		"frequency", recurring.Frequency,
		"nextDueDate", recurring.NextDueDate,
		"delay", delay,
	)

	return &CreateRecurringTransactionOutput{
		RecurringTransaction: toOutput(recurring, now),
		InitialTransactionID: initialID,
	}, nil
}
