// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthLayout is the layout of budget month keys ("YYYY-MM").
const MonthLayout = "2006-01"

// MonthOf returns the UTC calendar month key for t.
func MonthOf(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// ParseMonth validates a "YYYY-MM" month key and returns the first instant of that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t.UTC(), nil
}

// Budget is the per (user, account, month) spending plan.
type Budget struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Month         string
	TotalBudgeted decimal.Decimal
	TotalSpent    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBudget creates a new Budget entity.
func NewBudget(userID, accountID uuid.UUID, month string, totalBudgeted, totalSpent decimal.Decimal) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:            uuid.New(),
		UserID:        userID,
		AccountID:     accountID,
		Month:         month,
		TotalBudgeted: totalBudgeted,
		TotalSpent:    totalSpent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// BudgetCategory tracks budgeted vs spent for one category within a budget.
type BudgetCategory struct {
	ID           uuid.UUID
	BudgetID     uuid.UUID
	UserID       uuid.UUID
	AccountID    uuid.UUID
	CategoryID   uuid.UUID
	CategoryName string
	Name         string
	Color        string
	Icon         string
	Budgeted     decimal.Decimal
	Spent        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBudgetCategory creates a new BudgetCategory entity for the given budget.
func NewBudgetCategory(budget *Budget, category *Category, name string, budgeted, spent decimal.Decimal) *BudgetCategory {
	now := time.Now().UTC()

	if name == "" {
		name = category.Name
	}

	return &BudgetCategory{
		ID:           uuid.New(),
		BudgetID:     budget.ID,
		UserID:       budget.UserID,
		AccountID:    budget.AccountID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Name:         name,
		Color:        category.Color,
		Icon:         category.Icon,
		Budgeted:     budgeted,
		Spent:        spent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Remaining returns budgeted minus spent.
func (c *BudgetCategory) Remaining() decimal.Decimal {
	return c.Budgeted.Sub(c.Spent)
}

// BudgetWithCategories groups a budget with its category aggregates.
type BudgetWithCategories struct {
	Budget     *Budget
	Categories []*BudgetCategory
}
