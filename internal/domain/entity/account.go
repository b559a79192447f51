// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAccountsPerUser caps how many accounts a user may hold.
const MaxAccountsPerUser = 2

// DefaultAccountCurrency is used when an account is created without a currency.
const DefaultAccountCurrency = "USD"

// Account is a money container owned by a user. Transactions, templates and
// budgets are scoped to one account. At most one account per user is active.
type Account struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Balance     decimal.Decimal
	Currency    string
	Color       string
	Icon        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAccount creates a new, inactive Account entity.
func NewAccount(userID uuid.UUID, name, description string, balance decimal.Decimal, currency, color, icon string) *Account {
	now := time.Now().UTC()

	return &Account{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Balance:     balance,
		Currency:    currency,
		Color:       color,
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
