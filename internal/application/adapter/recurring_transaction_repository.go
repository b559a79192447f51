// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// RecurringTransactionRepository defines the interface for recurring template persistence operations.
type RecurringTransactionRepository interface {
	// Create persists a new recurring template.
	Create(ctx context.Context, recurring *entity.RecurringTransaction) error

	// FindByID retrieves a recurring template by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error)

	// FindByIDForUpdate retrieves a recurring template and locks its row for the
	// remainder of the surrounding unit of work, where the database supports it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error)

	// FindByUser retrieves all recurring templates for a user, ordered by next due date.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringTransaction, error)

	// FindActiveByUser retrieves the active recurring templates for a user.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringTransaction, error)

	// FindAllActive retrieves every active template across users (used to re-arm timers).
	FindAllActive(ctx context.Context) ([]*entity.RecurringTransaction, error)

	// FindDue retrieves active templates with next_due_date <= now, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.RecurringTransaction, error)

	// Update saves all fields of an existing template.
	Update(ctx context.Context, recurring *entity.RecurringTransaction) error

	// AdvanceCursor moves next_due_date from expectedNextDue to nextDue and sets
	// last_processed, only if the template is still active and its cursor still
	// equals expectedNextDue. It reports whether the row was updated.
	AdvanceCursor(ctx context.Context, id uuid.UUID, expectedNextDue, nextDue, processedAt time.Time) (bool, error)

	// Delete hard-deletes a template. Materialized transactions are not touched.
	Delete(ctx context.Context, id uuid.UUID) error
}
