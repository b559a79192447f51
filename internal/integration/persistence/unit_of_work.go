// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
)

// unitOfWork implements the adapter.UnitOfWork interface on gorm transactions.
type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work bound to db.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

// Do runs fn inside a database transaction.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos adapter.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// NewRepositories builds the repository set over db, which may be a transaction.
func NewRepositories(db *gorm.DB) adapter.Repositories {
	return adapter.Repositories{
		Accounts:     NewAccountRepository(db),
		Transactions: NewTransactionRepository(db),
		Recurring:    NewRecurringTransactionRepository(db),
		Budgets:      NewBudgetRepository(db),
		Categories:   NewCategoryRepository(db),
	}
}

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{
		&model.AccountModel{},
		&model.CategoryModel{},
		&model.TransactionModel{},
		&model.RecurringTransactionModel{},
		&model.BudgetModel{},
		&model.BudgetCategoryModel{},
	}
}
