// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByUser retrieves all accounts of a user, oldest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// FindByUserForUpdate is FindByUser locking the returned rows until the
	// surrounding unit of work ends.
	FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// FindActiveByUser retrieves the active accounts of a user.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// Update updates an existing account in the database.
	Update(ctx context.Context, account *entity.Account) error

	// DeactivateOthers clears the active flag on every account of userID except exceptID.
	DeactivateOthers(ctx context.Context, userID, exceptID uuid.UUID) error

	// Delete removes an account from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
