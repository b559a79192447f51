package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// UpdateBudgetInput represents the input for overriding budget totals.
type UpdateBudgetInput struct {
	BudgetID      uuid.UUID
	UserID        uuid.UUID
	TotalBudgeted *decimal.Decimal
	TotalSpent    *decimal.Decimal
}

// UpdateBudgetOutput represents the output of a budget update.
type UpdateBudgetOutput struct {
	Budget *BudgetOutput
}

// UpdateBudgetUseCase overrides the totals of a budget. The override is written
// as a difference against the locked row so concurrent bookings are kept.
type UpdateBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(uow adapter.UnitOfWork) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{uow: uow}
}

// Execute performs the update.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	var (
		budget     *entity.Budget
		categories []*entity.BudgetCategory
	)

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		budget, err = lockOwnedBudget(ctx, repos.Budgets, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		budgetedDiff := decimal.Zero
		spentDiff := decimal.Zero

		if input.TotalBudgeted != nil {
			if err := validateNonNegative(*input.TotalBudgeted, "total budgeted"); err != nil {
				return err
			}
			budgetedDiff = input.TotalBudgeted.Sub(budget.TotalBudgeted)
		}
		if input.TotalSpent != nil {
			if err := validateNonNegative(*input.TotalSpent, "total spent"); err != nil {
				return err
			}
			spentDiff = input.TotalSpent.Sub(budget.TotalSpent)
		}

		if !budgetedDiff.IsZero() || !spentDiff.IsZero() {
			if err := repos.Budgets.AddToBudgetTotals(ctx, budget.ID, budgetedDiff, spentDiff); err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}
		}

		budget, err = repos.Budgets.FindBudgetByID(ctx, budget.ID)
		if err != nil {
			return fmt.Errorf("failed to reload budget: %w", err)
		}

		categories, err = repos.Budgets.FindCategoriesByBudget(ctx, budget.ID)
		if err != nil {
			return fmt.Errorf("failed to find budget categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateBudgetOutput{Budget: toBudgetOutput(budget, categories)}, nil
}

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
}

// DeleteBudgetUseCase removes a budget together with its categories.
type DeleteBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(uow adapter.UnitOfWork) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{uow: uow}
}

// Execute performs the deletion.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) error {
	return uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		budget, err := findOwnedBudget(ctx, repos.Budgets, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}
		if err := repos.Budgets.DeleteBudget(ctx, budget.ID); err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		return nil
	})
}
