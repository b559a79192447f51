// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// Repositories groups the repositories bound to a single unit of work.
type Repositories struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Recurring    RecurringTransactionRepository
	Budgets      BudgetRepository
	Categories   CategoryRepository
}

// UnitOfWork runs a function against repositories that share one database
// transaction. The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
