package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// AddBudgetCategoryInput represents the input for adding a category to a budget.
type AddBudgetCategoryInput struct {
	BudgetID   uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Name       string // Optional, defaults to the category name
	Budgeted   decimal.Decimal
	Spent      decimal.Decimal
}

// BudgetCategoryResult represents the output of the budget category use cases.
type BudgetCategoryResult struct {
	Category *BudgetCategoryOutput
}

// AddBudgetCategoryUseCase adds a category aggregate and folds it into the budget totals.
type AddBudgetCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewAddBudgetCategoryUseCase creates a new AddBudgetCategoryUseCase instance.
func NewAddBudgetCategoryUseCase(uow adapter.UnitOfWork) *AddBudgetCategoryUseCase {
	return &AddBudgetCategoryUseCase{uow: uow}
}

// Execute adds the category. Each category appears at most once per budget.
func (uc *AddBudgetCategoryUseCase) Execute(ctx context.Context, input AddBudgetCategoryInput) (*BudgetCategoryResult, error) {
	if err := validateNonNegative(input.Budgeted, "budgeted"); err != nil {
		return nil, err
	}
	if err := validateNonNegative(input.Spent, "spent"); err != nil {
		return nil, err
	}

	var budgetCategory *entity.BudgetCategory

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		budget, err := findOwnedBudget(ctx, repos.Budgets, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		category, err := repos.Categories.FindByID(ctx, input.CategoryID)
		if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
			return fmt.Errorf("failed to find category: %w", err)
		}
		if err != nil || category.UserID != input.UserID {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryMissing,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}

		existing, err := repos.Budgets.FindCategoryInBudget(ctx, budget.ID, category.ID)
		if err != nil {
			return fmt.Errorf("failed to check budget category: %w", err)
		}
		if existing != nil {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryExists,
				"category already added to this budget",
				domainerror.ErrBudgetCategoryExists,
			)
		}

		budgetCategory = entity.NewBudgetCategory(budget, category, input.Name, input.Budgeted, input.Spent)
		if err := repos.Budgets.CreateCategory(ctx, budgetCategory); err != nil {
			return fmt.Errorf("failed to create budget category: %w", err)
		}

		if err := repos.Budgets.AddToBudgetTotals(ctx, budget.ID, input.Budgeted, input.Spent); err != nil {
			return fmt.Errorf("failed to update budget totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BudgetCategoryResult{Category: toCategoryOutput(budgetCategory)}, nil
}

// UpdateBudgetCategoryInput represents the input for editing a budget category.
type UpdateBudgetCategoryInput struct {
	BudgetCategoryID uuid.UUID
	UserID           uuid.UUID
	Budgeted         *decimal.Decimal
	Spent            *decimal.Decimal
}

// UpdateBudgetCategoryUseCase edits a category aggregate and moves the budget totals by the differences.
// Both rows are moved by the differences against the locked category, never overwritten.
type UpdateBudgetCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewUpdateBudgetCategoryUseCase creates a new UpdateBudgetCategoryUseCase instance.
func NewUpdateBudgetCategoryUseCase(uow adapter.UnitOfWork) *UpdateBudgetCategoryUseCase {
	return &UpdateBudgetCategoryUseCase{uow: uow}
}

// Execute performs the update.
func (uc *UpdateBudgetCategoryUseCase) Execute(ctx context.Context, input UpdateBudgetCategoryInput) (*BudgetCategoryResult, error) {
	var category *entity.BudgetCategory

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		category, err = lockOwnedCategory(ctx, repos.Budgets, input.BudgetCategoryID, input.UserID)
		if err != nil {
			return err
		}

		budgetedDiff := decimal.Zero
		spentDiff := decimal.Zero

		if input.Budgeted != nil {
			if err := validateNonNegative(*input.Budgeted, "budgeted"); err != nil {
				return err
			}
			budgetedDiff = input.Budgeted.Sub(category.Budgeted)
		}
		if input.Spent != nil {
			if err := validateNonNegative(*input.Spent, "spent"); err != nil {
				return err
			}
			spentDiff = input.Spent.Sub(category.Spent)
		}

		if budgetedDiff.IsZero() && spentDiff.IsZero() {
			return nil
		}
		if err := repos.Budgets.AddToCategoryTotals(ctx, category.ID, budgetedDiff, spentDiff); err != nil {
			return fmt.Errorf("failed to update budget category: %w", err)
		}
		if err := repos.Budgets.AddToBudgetTotals(ctx, category.BudgetID, budgetedDiff, spentDiff); err != nil {
			return fmt.Errorf("failed to update budget totals: %w", err)
		}

		category, err = repos.Budgets.FindCategoryByID(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("failed to reload budget category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BudgetCategoryResult{Category: toCategoryOutput(category)}, nil
}

// DeleteBudgetCategoryInput represents the input for removing a budget category.
type DeleteBudgetCategoryInput struct {
	BudgetCategoryID uuid.UUID
	UserID           uuid.UUID
}

// DeleteBudgetCategoryUseCase removes a category aggregate and subtracts it from the budget totals.
type DeleteBudgetCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteBudgetCategoryUseCase creates a new DeleteBudgetCategoryUseCase instance.
func NewDeleteBudgetCategoryUseCase(uow adapter.UnitOfWork) *DeleteBudgetCategoryUseCase {
	return &DeleteBudgetCategoryUseCase{uow: uow}
}

// Execute performs the deletion.
func (uc *DeleteBudgetCategoryUseCase) Execute(ctx context.Context, input DeleteBudgetCategoryInput) error {
	return uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		category, err := lockOwnedCategory(ctx, repos.Budgets, input.BudgetCategoryID, input.UserID)
		if err != nil {
			return err
		}

		if err := repos.Budgets.DeleteCategory(ctx, category.ID); err != nil {
			return fmt.Errorf("failed to delete budget category: %w", err)
		}

		if err := repos.Budgets.AddToBudgetTotals(ctx, category.BudgetID, category.Budgeted.Neg(), category.Spent.Neg()); err != nil {
			return fmt.Errorf("failed to update budget totals: %w", err)
		}
		return nil
	})
}
