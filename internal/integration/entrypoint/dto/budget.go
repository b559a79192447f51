package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/usecase/budget"
)

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	AccountID     string          `json:"account_id" binding:"required,uuid"`
	Month         string          `json:"month" binding:"required"`
	TotalBudgeted decimal.Decimal `json:"total_budgeted"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	TotalBudgeted *decimal.Decimal `json:"total_budgeted,omitempty"`
	TotalSpent    *decimal.Decimal `json:"total_spent,omitempty"`
}

// AddBudgetCategoryRequest represents the request body for adding a category to a budget.
type AddBudgetCategoryRequest struct {
	CategoryID string          `json:"category_id" binding:"required,uuid"`
	Name       string          `json:"name,omitempty" binding:"omitempty,max=50"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
}

// UpdateBudgetCategoryRequest represents the request body for budget category update.
type UpdateBudgetCategoryRequest struct {
	Budgeted *decimal.Decimal `json:"budgeted,omitempty"`
	Spent    *decimal.Decimal `json:"spent,omitempty"`
}

// BudgetCategoryResponse represents a budget category in API responses.
type BudgetCategoryResponse struct {
	ID           string `json:"id"`
	BudgetID     string `json:"budget_id"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Budgeted     string `json:"budgeted"`
	Spent        string `json:"spent"`
	Remaining    string `json:"remaining"`
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	AccountID     string                   `json:"account_id"`
	Month         string                   `json:"month"`
	TotalBudgeted string                   `json:"total_budgeted"`
	TotalSpent    string                   `json:"total_spent"`
	Categories    []BudgetCategoryResponse `json:"categories"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// CurrentBudgetResponse wraps the budget of the current month, which may be absent.
type CurrentBudgetResponse struct {
	Budget *BudgetResponse `json:"budget"`
}

// ToBudgetCategoryResponse converts a BudgetCategoryOutput to its response DTO.
func ToBudgetCategoryResponse(c *budget.BudgetCategoryOutput) BudgetCategoryResponse {
	return BudgetCategoryResponse{
		ID:           c.ID.String(),
		BudgetID:     c.BudgetID.String(),
		CategoryID:   c.CategoryID.String(),
		CategoryName: c.CategoryName,
		Name:         c.Name,
		Color:        c.Color,
		Icon:         c.Icon,
		Budgeted:     c.Budgeted.String(),
		Spent:        c.Spent.String(),
		Remaining:    c.Remaining.String(),
	}
}

// ToBudgetResponse converts a BudgetOutput to its response DTO.
func ToBudgetResponse(b *budget.BudgetOutput) BudgetResponse {
	categories := make([]BudgetCategoryResponse, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = ToBudgetCategoryResponse(c)
	}

	return BudgetResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		AccountID:     b.AccountID.String(),
		Month:         b.Month,
		TotalBudgeted: b.TotalBudgeted.String(),
		TotalSpent:    b.TotalSpent.String(),
		Categories:    categories,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBudgetListResponse converts a list of budgets to its response DTO.
func ToBudgetListResponse(outputs []*budget.BudgetOutput) BudgetListResponse {
	budgets := make([]BudgetResponse, len(outputs))
	for i, output := range outputs {
		budgets[i] = ToBudgetResponse(output)
	}
	return BudgetListResponse{
		Budgets: budgets,
	}
}
