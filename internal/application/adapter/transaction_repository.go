// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDForUpdate retrieves a transaction and locks its row until the
	// surrounding unit of work ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByAccount retrieves all transactions of a user's account, newest first.
	FindByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.Transaction, error)

	// FindByRecurring retrieves the transactions materialized from a recurring template.
	FindByRecurring(ctx context.Context, recurringID uuid.UUID) ([]*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// SumExpensesByCategory totals expense amounts per category for a user's
	// account within [startDate, endDate).
	SumExpensesByCategory(
		ctx context.Context,
		userID uuid.UUID,
		accountID uuid.UUID,
		startDate time.Time,
		endDate time.Time,
	) (map[uuid.UUID]decimal.Decimal, error)
}
