package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// DeleteAccountInput represents the input for account deletion.
type DeleteAccountInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// DeleteAccountOutput represents the output of account deletion.
type DeleteAccountOutput struct {
	Success bool
}

// DeleteAccountUseCase handles account deletion logic.
// Transactions, templates and budgets of the account are left in place.
type DeleteAccountUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteAccountUseCase creates a new DeleteAccountUseCase instance.
func NewDeleteAccountUseCase(uow adapter.UnitOfWork) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{uow: uow}
}

// Execute deletes the account. A user's last account cannot be deleted;
// deleting the active account activates the oldest remaining one.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) (*DeleteAccountOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		account, err := findOwned(ctx, repos.Accounts, input.AccountID, input.UserID)
		if err != nil {
			return err
		}

		accounts, err := repos.Accounts.FindByUserForUpdate(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		if len(accounts) <= 1 {
			return domainerror.NewAccountError(
				domainerror.ErrCodeLastAccount,
				"cannot delete the last account",
				domainerror.ErrCannotDeleteLastAccount,
			)
		}

		if account.IsActive {
			for _, other := range accounts {
				if other.ID == account.ID {
					continue
				}
				other.IsActive = true
				other.UpdatedAt = time.Now().UTC()
				if err := repos.Accounts.Update(ctx, other); err != nil {
					return fmt.Errorf("failed to activate account: %w", err)
				}
				slog.Info("Account activated", "accountID", other.ID, "userID", other.UserID)
				break
			}
		}

		if err := repos.Accounts.Delete(ctx, account.ID); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteAccountOutput{Success: true}, nil
}
