// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// RecurringTransactionModel represents the recurring_transactions table in the database.
type RecurringTransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryName  string          `gorm:"type:varchar(50)"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type          string          `gorm:"type:varchar(10);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Location      string          `gorm:"type:varchar(255)"`
	Notes         string          `gorm:"type:text"`
	Receipt       string          `gorm:"type:text"`
	Frequency     string          `gorm:"type:varchar(10);not null"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       *time.Time
	NextDueDate   time.Time `gorm:"not null;index:idx_recurring_due,priority:2"`
	LastProcessed *time.Time
	IsActive      bool      `gorm:"not null;default:true;index:idx_recurring_due,priority:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the RecurringTransactionModel.
func (RecurringTransactionModel) TableName() string {
	return "recurring_transactions"
}

// ToEntity converts a RecurringTransactionModel to a domain RecurringTransaction entity.
func (m *RecurringTransactionModel) ToEntity() *entity.RecurringTransaction {
	return &entity.RecurringTransaction{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		CategoryID:    m.CategoryID,
		CategoryName:  m.CategoryName,
		Description:   m.Description,
		Amount:        m.Amount,
		Type:          entity.TransactionType(m.Type),
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Location:      m.Location,
		Notes:         m.Notes,
		Receipt:       m.Receipt,
		Frequency:     entity.Frequency(m.Frequency),
		StartDate:     m.StartDate.UTC(),
		EndDate:       utcPtr(m.EndDate),
		NextDueDate:   m.NextDueDate.UTC(),
		LastProcessed: utcPtr(m.LastProcessed),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// RecurringTransactionFromEntity creates a RecurringTransactionModel from a domain entity.
func RecurringTransactionFromEntity(r *entity.RecurringTransaction) *RecurringTransactionModel {
	return &RecurringTransactionModel{
		ID:            r.ID,
		UserID:        r.UserID,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		CategoryName:  r.CategoryName,
		Description:   r.Description,
		Amount:        r.Amount,
		Type:          string(r.Type),
		PaymentMethod: string(r.PaymentMethod),
		Location:      r.Location,
		Notes:         r.Notes,
		Receipt:       r.Receipt,
		Frequency:     string(r.Frequency),
		StartDate:     r.StartDate.UTC(),
		EndDate:       utcPtr(r.EndDate),
		NextDueDate:   r.NextDueDate.UTC(),
		LastProcessed: utcPtr(r.LastProcessed),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
