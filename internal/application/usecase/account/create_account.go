// Package account contains account-related use cases.
package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

const (
	// MaxAccountNameLength is the maximum allowed length for account names.
	MaxAccountNameLength = 50
	// MaxAccountDescriptionLength is the maximum allowed length for account descriptions.
	MaxAccountDescriptionLength = 255

	defaultAccountColor = "#6366F1"
	defaultAccountIcon  = "wallet"
)

var (
	hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// CreateAccountInput represents the input for account creation.
type CreateAccountInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
	Balance     decimal.Decimal
	Currency    string // Optional, defaults to DefaultAccountCurrency
	Color       string // Optional
	Icon        string // Optional
	IsActive    bool
}

// CreateAccountOutput represents the output of account creation.
type CreateAccountOutput struct {
	Account *entity.Account
}

// CreateAccountUseCase handles account creation logic.
type CreateAccountUseCase struct {
	uow adapter.UnitOfWork
}

// NewCreateAccountUseCase creates a new CreateAccountUseCase instance.
func NewCreateAccountUseCase(uow adapter.UnitOfWork) *CreateAccountUseCase {
	return &CreateAccountUseCase{uow: uow}
}

// Execute creates the account. A user's first account is always active;
// activating a new account deactivates the others.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	name := strings.TrimSpace(input.Name)
	if input.UserID == uuid.Nil || name == "" {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeMissingAccountFields,
			"account name is required",
			nil,
		)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = entity.DefaultAccountCurrency
	}
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = defaultAccountColor
	}
	if !hexColorRegex.MatchString(color) {
		return nil, invalidColorError()
	}
	icon := input.Icon
	if icon == "" {
		icon = defaultAccountIcon
	}

	account := entity.NewAccount(input.UserID, name, input.Description, input.Balance, currency, color, icon)

	err = uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		existing, err := repos.Accounts.FindByUserForUpdate(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		if len(existing) >= entity.MaxAccountsPerUser {
			return domainerror.NewAccountError(
				domainerror.ErrCodeAccountLimitReached,
				fmt.Sprintf("a user may hold at most %d accounts", entity.MaxAccountsPerUser),
				domainerror.ErrAccountLimitReached,
			)
		}

		account.IsActive = input.IsActive || len(existing) == 0
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		if !account.IsActive {
			return nil
		}
		if err := repos.Accounts.DeactivateOthers(ctx, input.UserID, account.ID); err != nil {
			return fmt.Errorf("failed to deactivate accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateAccountOutput{Account: account}, nil
}

func validateName(name string) error {
	if len(name) > MaxAccountNameLength {
		return domainerror.NewAccountError(
			domainerror.ErrCodeAccountNameTooLong,
			fmt.Sprintf("account name must not exceed %d characters", MaxAccountNameLength),
			domainerror.ErrAccountNameTooLong,
		)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxAccountDescriptionLength {
		return domainerror.NewAccountError(
			domainerror.ErrCodeAccountDescTooLong,
			fmt.Sprintf("account description must not exceed %d characters", MaxAccountDescriptionLength),
			domainerror.ErrAccountDescriptionTooLong,
		)
	}
	return nil
}

func normalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyRegex.MatchString(currency) {
		return "", domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountCurrency,
			"currency must be a three-letter code",
			domainerror.ErrInvalidCurrency,
		)
	}
	return currency, nil
}

func invalidColorError() error {
	return domainerror.NewAccountError(
		domainerror.ErrCodeInvalidAccountColor,
		"color must be a valid hex format (#XXXXXX)",
		domainerror.ErrInvalidColorFormat,
	)
}

// findOwned loads an account and checks it belongs to userID.
func findOwned(ctx context.Context, accounts adapter.AccountRepository, accountID, userID uuid.UUID) (*entity.Account, error) {
	account, err := accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account.UserID != userID {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeNotAuthorizedAccount,
			"not authorized to modify this account",
			domainerror.ErrNotAuthorizedToModifyAccount,
		)
	}
	return account, nil
}

func notFoundError() error {
	return domainerror.NewAccountError(
		domainerror.ErrCodeAccountNotFound,
		"account not found",
		domainerror.ErrAccountNotFound,
	)
}
