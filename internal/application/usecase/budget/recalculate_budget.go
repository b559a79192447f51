package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// RecalculateBudgetInput represents the input for rebuilding a budget's spent totals.
type RecalculateBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
}

// RecalculateBudgetOutput represents the output of a recalculation.
type RecalculateBudgetOutput struct {
	Budget *BudgetOutput
}

// RecalculateBudgetUseCase rebuilds spent totals from the transaction records
// of the budget's scope. Running it twice gives the same result.
type RecalculateBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewRecalculateBudgetUseCase creates a new RecalculateBudgetUseCase instance.
func NewRecalculateBudgetUseCase(uow adapter.UnitOfWork) *RecalculateBudgetUseCase {
	return &RecalculateBudgetUseCase{uow: uow}
}

// Execute performs the recalculation. Each category's spent becomes the sum of
// its expenses in the month; the budget's total spent becomes the sum of all
// expenses of the account in the month.
func (uc *RecalculateBudgetUseCase) Execute(ctx context.Context, input RecalculateBudgetInput) (*RecalculateBudgetOutput, error) {
	var (
		budget     *entity.Budget
		categories []*entity.BudgetCategory
	)

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		budget, err = findOwnedBudget(ctx, repos.Budgets, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		// Lock order matches the ledger: category rows first, then the budget row.
		categories, err = repos.Budgets.FindCategoriesByBudgetForUpdate(ctx, budget.ID)
		if err != nil {
			return fmt.Errorf("failed to find budget categories: %w", err)
		}
		budget, err = lockOwnedBudget(ctx, repos.Budgets, budget.ID, input.UserID)
		if err != nil {
			return err
		}

		start, err := entity.ParseMonth(budget.Month)
		if err != nil {
			return err
		}

		sums, err := repos.Transactions.SumExpensesByCategory(ctx, budget.UserID, budget.AccountID, start, start.AddDate(0, 1, 0))
		if err != nil {
			return fmt.Errorf("failed to sum expenses: %w", err)
		}

		now := time.Now().UTC()
		for _, c := range categories {
			spent := sums[c.CategoryID]
			diff := spent.Sub(c.Spent)
			if diff.IsZero() {
				continue
			}
			if err := repos.Budgets.AddToCategoryTotals(ctx, c.ID, decimal.Zero, diff); err != nil {
				return fmt.Errorf("failed to update budget category: %w", err)
			}
			c.Spent = spent
			c.UpdatedAt = now
		}

		total := decimal.Zero
		for _, sum := range sums {
			total = total.Add(sum)
		}
		if diff := total.Sub(budget.TotalSpent); !diff.IsZero() {
			if err := repos.Budgets.AddToBudgetTotals(ctx, budget.ID, decimal.Zero, diff); err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}
		}
		budget.TotalSpent = total
		budget.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Budget recalculated",
		"budgetID", budget.ID,
		"month", budget.Month,
		"totalSpent", budget.TotalSpent,
	)

	return &RecalculateBudgetOutput{Budget: toBudgetOutput(budget, categories)}, nil
}
