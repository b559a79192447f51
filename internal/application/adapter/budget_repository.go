// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// BudgetRepository defines the interface for budget and budget category persistence operations.
type BudgetRepository interface {
	// CreateBudget persists a new budget.
	CreateBudget(ctx context.Context, budget *entity.Budget) error

	// FindBudgetByID retrieves a budget by its ID.
	FindBudgetByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindBudgetByIDForUpdate retrieves a budget and locks its row until the
	// surrounding unit of work ends.
	FindBudgetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindBudgetByScope retrieves the budget for (user, account, month).
	// Returns nil, nil when no budget covers that scope.
	FindBudgetByScope(ctx context.Context, userID, accountID uuid.UUID, month string) (*entity.Budget, error)

	// FindBudgetsByAccount retrieves every budget of a user's account with its categories.
	FindBudgetsByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.BudgetWithCategories, error)

	// DeleteBudget removes a budget and all of its categories.
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	// AddToBudgetTotals atomically adds the deltas to total_budgeted and total_spent.
	AddToBudgetTotals(ctx context.Context, budgetID uuid.UUID, budgetedDelta, spentDelta decimal.Decimal) error

	// CreateCategory persists a new budget category.
	CreateCategory(ctx context.Context, category *entity.BudgetCategory) error

	// FindCategoryByID retrieves a budget category by its ID.
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.BudgetCategory, error)

	// FindCategoryByIDForUpdate retrieves a budget category and locks its row.
	FindCategoryByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.BudgetCategory, error)

	// FindCategoryInBudget retrieves the aggregate for categoryID within budgetID.
	// Returns nil, nil when the category was never added to the budget.
	FindCategoryInBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*entity.BudgetCategory, error)

	// FindCategoriesByBudget retrieves every category aggregate of a budget.
	FindCategoriesByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetCategory, error)

	// FindCategoriesByBudgetForUpdate retrieves every category aggregate of a budget and locks their rows.
	FindCategoriesByBudgetForUpdate(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetCategory, error)

	// AddToCategoryTotals atomically adds the deltas to a budget category's budgeted and spent.
	AddToCategoryTotals(ctx context.Context, budgetCategoryID uuid.UUID, budgetedDelta, spentDelta decimal.Decimal) error

	// AddToCategorySpent atomically adds delta to a budget category's spent.
	AddToCategorySpent(ctx context.Context, budgetCategoryID uuid.UUID, delta decimal.Decimal) error

	// DeleteCategory removes a budget category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
