// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_scope,priority:1"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_scope,priority:2"`
	Month         string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_budgets_scope,priority:3"`
	TotalBudgeted decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`

	Categories []BudgetCategoryModel `gorm:"foreignKey:BudgetID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		Month:         m.Month,
		TotalBudgeted: m.TotalBudgeted,
		TotalSpent:    m.TotalSpent,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:            budget.ID,
		UserID:        budget.UserID,
		AccountID:     budget.AccountID,
		Month:         budget.Month,
		TotalBudgeted: budget.TotalBudgeted,
		TotalSpent:    budget.TotalSpent,
		CreatedAt:     budget.CreatedAt,
		UpdatedAt:     budget.UpdatedAt,
	}
}

// BudgetCategoryModel represents the budget_categories table in the database.
type BudgetCategoryModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BudgetID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_categories_category,priority:1"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_categories_category,priority:2"`
	CategoryName string          `gorm:"type:varchar(50)"`
	Name         string          `gorm:"type:varchar(50);not null"`
	Color        string          `gorm:"type:varchar(7)"`
	Icon         string          `gorm:"type:varchar(50)"`
	Budgeted     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Spent        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetCategoryModel.
func (BudgetCategoryModel) TableName() string {
	return "budget_categories"
}

// ToEntity converts a BudgetCategoryModel to a domain BudgetCategory entity.
func (m *BudgetCategoryModel) ToEntity() *entity.BudgetCategory {
	return &entity.BudgetCategory{
		ID:           m.ID,
		BudgetID:     m.BudgetID,
		UserID:       m.UserID,
		AccountID:    m.AccountID,
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		Name:         m.Name,
		Color:        m.Color,
		Icon:         m.Icon,
		Budgeted:     m.Budgeted,
		Spent:        m.Spent,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// BudgetCategoryFromEntity creates a BudgetCategoryModel from a domain BudgetCategory entity.
func BudgetCategoryFromEntity(c *entity.BudgetCategory) *BudgetCategoryModel {
	return &BudgetCategoryModel{
		ID:           c.ID,
		BudgetID:     c.BudgetID,
		UserID:       c.UserID,
		AccountID:    c.AccountID,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Name:         c.Name,
		Color:        c.Color,
		Icon:         c.Icon,
		Budgeted:     c.Budgeted,
		Spent:        c.Spent,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
