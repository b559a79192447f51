package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// UpdateAccountInput represents the input for account update.
type UpdateAccountInput struct {
	AccountID   uuid.UUID
	UserID      uuid.UUID
	Name        *string          // Optional
	Description *string          // Optional
	Balance     *decimal.Decimal // Optional
	Currency    *string          // Optional
	Color       *string          // Optional
	Icon        *string          // Optional
	IsActive    *bool            // Optional, true deactivates the user's other accounts
}

// UpdateAccountOutput represents the output of account update.
type UpdateAccountOutput struct {
	Account *entity.Account
}

// UpdateAccountUseCase handles account update logic.
type UpdateAccountUseCase struct {
	uow adapter.UnitOfWork
}

// NewUpdateAccountUseCase creates a new UpdateAccountUseCase instance.
func NewUpdateAccountUseCase(uow adapter.UnitOfWork) *UpdateAccountUseCase {
	return &UpdateAccountUseCase{uow: uow}
}

// Execute performs the account update.
func (uc *UpdateAccountUseCase) Execute(ctx context.Context, input UpdateAccountInput) (*UpdateAccountOutput, error) {
	var account *entity.Account

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		var err error
		account, err = findOwned(ctx, repos.Accounts, input.AccountID, input.UserID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name != "" {
				if err := validateName(name); err != nil {
					return err
				}
				account.Name = name
			}
		}
		if input.Description != nil {
			if err := validateDescription(*input.Description); err != nil {
				return err
			}
			account.Description = *input.Description
		}
		if input.Balance != nil {
			account.Balance = *input.Balance
		}
		if input.Currency != nil && *input.Currency != "" {
			currency, err := normalizeCurrency(*input.Currency)
			if err != nil {
				return err
			}
			account.Currency = currency
		}
		if input.Color != nil && *input.Color != "" {
			if !hexColorRegex.MatchString(*input.Color) {
				return invalidColorError()
			}
			account.Color = *input.Color
		}
		if input.Icon != nil && *input.Icon != "" {
			account.Icon = *input.Icon
		}
		if input.IsActive != nil {
			account.IsActive = *input.IsActive
		}
		account.UpdatedAt = time.Now().UTC()

		if err := repos.Accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		if input.IsActive == nil || !*input.IsActive {
			return nil
		}
		if err := repos.Accounts.DeactivateOthers(ctx, account.UserID, account.ID); err != nil {
			return fmt.Errorf("failed to deactivate accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateAccountOutput{Account: account}, nil
}
