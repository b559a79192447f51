// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// BudgetOutput represents a budget with its category aggregates.
type BudgetOutput struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Month         string
	TotalBudgeted decimal.Decimal
	TotalSpent    decimal.Decimal
	Categories    []*BudgetCategoryOutput
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BudgetCategoryOutput represents one category aggregate of a budget.
type BudgetCategoryOutput struct {
	ID           uuid.UUID
	BudgetID     uuid.UUID
	CategoryID   uuid.UUID
	CategoryName string
	Name         string
	Color        string
	Icon         string
	Budgeted     decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
}

func toBudgetOutput(budget *entity.Budget, categories []*entity.BudgetCategory) *BudgetOutput {
	output := &BudgetOutput{
		ID:            budget.ID,
		UserID:        budget.UserID,
		AccountID:     budget.AccountID,
		Month:         budget.Month,
		TotalBudgeted: budget.TotalBudgeted,
		TotalSpent:    budget.TotalSpent,
		Categories:    make([]*BudgetCategoryOutput, len(categories)),
		CreatedAt:     budget.CreatedAt,
		UpdatedAt:     budget.UpdatedAt,
	}
	for i, c := range categories {
		output.Categories[i] = toCategoryOutput(c)
	}
	return output
}

func toCategoryOutput(c *entity.BudgetCategory) *BudgetCategoryOutput {
	return &BudgetCategoryOutput{
		ID:           c.ID,
		BudgetID:     c.BudgetID,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Name:         c.Name,
		Color:        c.Color,
		Icon:         c.Icon,
		Budgeted:     c.Budgeted,
		Spent:        c.Spent,
		Remaining:    c.Remaining(),
	}
}

func validateNonNegative(amount decimal.Decimal, field string) error {
	if amount.IsNegative() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetAmount,
			field+" must not be negative",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	return nil
}

// findOwnedBudget loads a budget and checks it belongs to userID.
func findOwnedBudget(ctx context.Context, budgets adapter.BudgetRepository, budgetID, userID uuid.UUID) (*entity.Budget, error) {
	budget, err := budgets.FindBudgetByID(ctx, budgetID)
	return checkBudgetOwner(budget, err, userID)
}

// lockOwnedBudget is findOwnedBudget holding the budget row until the unit of work ends.
func lockOwnedBudget(ctx context.Context, budgets adapter.BudgetRepository, budgetID, userID uuid.UUID) (*entity.Budget, error) {
	budget, err := budgets.FindBudgetByIDForUpdate(ctx, budgetID)
	return checkBudgetOwner(budget, err, userID)
}

func checkBudgetOwner(budget *entity.Budget, err error, userID uuid.UUID) (*entity.Budget, error) {
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	if budget.UserID != userID {
		return nil, notAuthorizedError()
	}
	return budget, nil
}

// lockOwnedCategory loads a budget category, locks its row and checks it belongs to userID.
func lockOwnedCategory(
	ctx context.Context,
	budgets adapter.BudgetRepository,
	budgetCategoryID uuid.UUID,
	userID uuid.UUID,
) (*entity.BudgetCategory, error) {
	category, err := budgets.FindCategoryByIDForUpdate(ctx, budgetCategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetCategoryNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryNotFound,
				"budget category not found",
				domainerror.ErrBudgetCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find budget category: %w", err)
	}
	if category.UserID != userID {
		return nil, notAuthorizedError()
	}
	return category, nil
}

// checkAccount verifies accountID names an account of userID.
func checkAccount(ctx context.Context, accounts adapter.AccountRepository, accountID, userID uuid.UUID) error {
	account, err := accounts.FindByID(ctx, accountID)
	if err != nil && !errors.Is(err, domainerror.ErrAccountNotFound) {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if err != nil || account.UserID != userID {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetAccountMissing,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	return nil
}

func notAuthorizedError() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeNotAuthorizedBudget,
		"not authorized to modify this budget",
		domainerror.ErrNotAuthorizedToModifyBudget,
	)
}
