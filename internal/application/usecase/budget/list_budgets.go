package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// ListBudgetsInput represents the input for listing the budgets of an account.
type ListBudgetsInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []*BudgetOutput
}

// ListBudgetsUseCase lists every budget of an account with its categories.
type ListBudgetsUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(budgetRepo adapter.BudgetRepository) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{budgetRepo: budgetRepo}
}

// Execute lists the budgets.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	budgets, err := uc.budgetRepo.FindBudgetsByAccount(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	output := &ListBudgetsOutput{Budgets: make([]*BudgetOutput, len(budgets))}
	for i, b := range budgets {
		output.Budgets[i] = toBudgetOutput(b.Budget, b.Categories)
	}
	return output, nil
}

// GetCurrentBudgetInput represents the input for fetching the current month's budget.
type GetCurrentBudgetInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

// GetCurrentBudgetOutput represents the output of fetching the current budget.
// Budget is nil when the current month has no budget.
type GetCurrentBudgetOutput struct {
	Budget *BudgetOutput
}

// GetCurrentBudgetUseCase returns the budget of the current UTC month.
type GetCurrentBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	clock      adapter.Clock
}

// NewGetCurrentBudgetUseCase creates a new GetCurrentBudgetUseCase instance.
func NewGetCurrentBudgetUseCase(budgetRepo adapter.BudgetRepository, clock adapter.Clock) *GetCurrentBudgetUseCase {
	return &GetCurrentBudgetUseCase{
		budgetRepo: budgetRepo,
		clock:      clock,
	}
}

// Execute fetches the budget.
func (uc *GetCurrentBudgetUseCase) Execute(ctx context.Context, input GetCurrentBudgetInput) (*GetCurrentBudgetOutput, error) {
	month := entity.MonthOf(uc.clock.Now())

	budget, err := uc.budgetRepo.FindBudgetByScope(ctx, input.UserID, input.AccountID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to find current budget: %w", err)
	}
	if budget == nil {
		return &GetCurrentBudgetOutput{}, nil
	}

	categories, err := uc.budgetRepo.FindCategoriesByBudget(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget categories: %w", err)
	}

	return &GetCurrentBudgetOutput{Budget: toBudgetOutput(budget, categories)}, nil
}
