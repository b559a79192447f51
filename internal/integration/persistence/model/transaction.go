// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_scope,priority:1"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_scope,priority:2"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryName  string          `gorm:"type:varchar(50)"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type          string          `gorm:"type:varchar(10);not null;index"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Date          time.Time       `gorm:"not null;index:idx_transactions_scope,priority:3"`
	Location      string          `gorm:"type:varchar(255)"`
	Notes         string          `gorm:"type:text"`
	Receipt       string          `gorm:"type:text"`
	IsRecurring   bool            `gorm:"default:false"`
	RecurringID   *uuid.UUID      `gorm:"type:uuid;index"` // Not a foreign key: templates are hard-deleted
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time.UTC()
		deletedAt = &t
	}

	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		CategoryID:    m.CategoryID,
		CategoryName:  m.CategoryName,
		Description:   m.Description,
		Amount:        m.Amount,
		Type:          entity.TransactionType(m.Type),
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Date:          m.Date.UTC(),
		Location:      m.Location,
		Notes:         m.Notes,
		Receipt:       m.Receipt,
		IsRecurring:   m.IsRecurring,
		RecurringID:   m.RecurringID,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
		DeletedAt:     deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:            transaction.ID,
		UserID:        transaction.UserID,
		AccountID:     transaction.AccountID,
		CategoryID:    transaction.CategoryID,
		CategoryName:  transaction.CategoryName,
		Description:   transaction.Description,
		Amount:        transaction.Amount,
		Type:          string(transaction.Type),
		PaymentMethod: string(transaction.PaymentMethod),
		Date:          transaction.Date.UTC(),
		Location:      transaction.Location,
		Notes:         transaction.Notes,
		Receipt:       transaction.Receipt,
		IsRecurring:   transaction.IsRecurring,
		RecurringID:   transaction.RecurringID,
		CreatedAt:     transaction.CreatedAt,
		UpdatedAt:     transaction.UpdatedAt,
		DeletedAt:     deletedAt,
	}
}
