package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Month         string // "YYYY-MM"
	TotalBudgeted decimal.Decimal
	TotalSpent    decimal.Decimal
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *BudgetOutput
}

// CreateBudgetUseCase creates the budget of one (user, account, month) scope.
type CreateBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(uow adapter.UnitOfWork) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{uow: uow}
}

// Execute performs the budget creation. A scope holds at most one budget.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	if input.AccountID == uuid.Nil || input.Month == "" {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"account and month are required",
			nil,
		)
	}
	if _, err := entity.ParseMonth(input.Month); err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetMonth,
			"month must use the YYYY-MM format",
			domainerror.ErrInvalidBudgetMonth,
		)
	}
	if err := validateNonNegative(input.TotalBudgeted, "total budgeted"); err != nil {
		return nil, err
	}
	if err := validateNonNegative(input.TotalSpent, "total spent"); err != nil {
		return nil, err
	}

	budget := entity.NewBudget(input.UserID, input.AccountID, input.Month, input.TotalBudgeted, input.TotalSpent)

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if err := checkAccount(ctx, repos.Accounts, input.AccountID, input.UserID); err != nil {
			return err
		}

		existing, err := repos.Budgets.FindBudgetByScope(ctx, input.UserID, input.AccountID, input.Month)
		if err != nil {
			return fmt.Errorf("failed to check existing budget: %w", err)
		}
		if existing != nil {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetAlreadyExists,
				"a budget already exists for this account and month",
				domainerror.ErrBudgetAlreadyExists,
			)
		}

		if err := repos.Budgets.CreateBudget(ctx, budget); err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateBudgetOutput{Budget: toBudgetOutput(budget, nil)}, nil
}
