// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether the transaction type is expense or income.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobilePayment PaymentMethod = "MOBILE_PAYMENT"
	PaymentMethodOther         PaymentMethod = "OTHER"
)

// IsValid reports whether the payment method is supported.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodMobilePayment, PaymentMethodOther:
		return true
	}
	return false
}

// Transaction represents a concrete ledger entry.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	CategoryName  string // Snapshot taken at creation, not kept in sync with renames
	Description   string
	Amount        decimal.Decimal // Always positive; Type carries the direction
	Type          TransactionType
	PaymentMethod PaymentMethod
	Date          time.Time
	Location      string
	Notes         string
	Receipt       string
	IsRecurring   bool
	RecurringID   *uuid.UUID // Non-owning back-reference to the originating template
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	accountID uuid.UUID,
	category *Category,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	paymentMethod PaymentMethod,
	date time.Time,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		AccountID:     accountID,
		CategoryID:    category.ID,
		CategoryName:  category.Name,
		Description:   description,
		Amount:        amount,
		Type:          transactionType,
		PaymentMethod: paymentMethod,
		Date:          date.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsExpense reports whether the transaction counts against budgets.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// Month returns the budget month key the transaction falls in.
func (t *Transaction) Month() string {
	return MonthOf(t.Date)
}
