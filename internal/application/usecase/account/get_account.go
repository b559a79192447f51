package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// GetAccountInput represents the input for fetching one account.
type GetAccountInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// GetAccountOutput represents the output of fetching one account.
type GetAccountOutput struct {
	Account *entity.Account
}

// GetAccountUseCase returns one account of the caller.
type GetAccountUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewGetAccountUseCase creates a new GetAccountUseCase instance.
func NewGetAccountUseCase(accountRepo adapter.AccountRepository) *GetAccountUseCase {
	return &GetAccountUseCase{accountRepo: accountRepo}
}

// Execute performs the lookup. Another user's account reads as not found.
func (uc *GetAccountUseCase) Execute(ctx context.Context, input GetAccountInput) (*GetAccountOutput, error) {
	account, err := findOwned(ctx, uc.accountRepo, input.AccountID, input.UserID)
	if errors.Is(err, domainerror.ErrNotAuthorizedToModifyAccount) {
		return nil, notFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &GetAccountOutput{Account: account}, nil
}

// ListAccountsInput represents the input for listing accounts.
type ListAccountsInput struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// ListAccountsOutput represents the output of listing accounts.
type ListAccountsOutput struct {
	Accounts []*entity.Account
}

// ListAccountsUseCase lists the accounts of the caller.
type ListAccountsUseCase struct {
	accountRepo adapter.AccountRepository
}

// NewListAccountsUseCase creates a new ListAccountsUseCase instance.
func NewListAccountsUseCase(accountRepo adapter.AccountRepository) *ListAccountsUseCase {
	return &ListAccountsUseCase{accountRepo: accountRepo}
}

// Execute performs the listing.
func (uc *ListAccountsUseCase) Execute(ctx context.Context, input ListAccountsInput) (*ListAccountsOutput, error) {
	var (
		accounts []*entity.Account
		err      error
	)
	if input.ActiveOnly {
		accounts, err = uc.accountRepo.FindActiveByUser(ctx, input.UserID)
	} else {
		accounts, err = uc.accountRepo.FindByUser(ctx, input.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &ListAccountsOutput{Accounts: accounts}, nil
}
