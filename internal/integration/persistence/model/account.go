// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_accounts_user_active,priority:1"`
	Name        string          `gorm:"type:varchar(50);not null"`
	Description string          `gorm:"type:varchar(255)"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Color       string          `gorm:"type:varchar(7);default:'#6366F1'"`
	Icon        string          `gorm:"type:varchar(50);default:'wallet'"`
	IsActive    bool            `gorm:"not null;default:false;index:idx_accounts_user_active,priority:2"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		Balance:     m.Balance,
		Currency:    m.Currency,
		Color:       m.Color,
		Icon:        m.Icon,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:          account.ID,
		UserID:      account.UserID,
		Name:        account.Name,
		Description: account.Description,
		Balance:     account.Balance,
		Currency:    account.Currency,
		Color:       account.Color,
		Icon:        account.Icon,
		IsActive:    account.IsActive,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
