package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	infradb "github.com/finance-tracker/recurring/internal/infra/db"
	"github.com/finance-tracker/recurring/internal/integration/persistence"
)

type fixture struct {
	uow    adapter.UnitOfWork
	repos  adapter.Repositories
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := infradb.NewConnection(&config.DatabaseConfig{
		Driver: infradb.DriverSQLite,
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(persistence.Models()...))

	return &fixture{
		uow:    persistence.NewUnitOfWork(database.DB()),
		repos:  persistence.NewRepositories(database.DB()),
		userID: uuid.New(),
	}
}

func (f *fixture) create(t *testing.T, name string, active bool) *entity.Account {
	t.Helper()

	output, err := NewCreateAccountUseCase(f.uow).Execute(context.Background(), CreateAccountInput{
		UserID:   f.userID,
		Name:     name,
		Balance:  decimal.RequireFromString("1250.50"),
		IsActive: active,
	})
	require.NoError(t, err)
	return output.Account
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) *entity.Account {
	t.Helper()

	account, err := f.repos.Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return account
}

func accountCode(t *testing.T, err error) domainerror.AccountErrorCode {
	t.Helper()

	var accErr *domainerror.AccountError
	require.True(t, errors.As(err, &accErr), "unexpected error: %v", err)
	return accErr.Code
}

func TestCreateAccount(t *testing.T) {
	t.Run("first account is active and gets defaults", func(t *testing.T) {
		f := newFixture(t)

		account := f.create(t, "  Checking  ", false)

		assert.Equal(t, "Checking", account.Name)
		assert.True(t, account.IsActive)
		assert.Equal(t, entity.DefaultAccountCurrency, account.Currency)
		assert.Equal(t, "#6366F1", account.Color)
		assert.Equal(t, "wallet", account.Icon)
		assert.True(t, decimal.RequireFromString("1250.5").Equal(f.stored(t, account.ID).Balance))
	})

	t.Run("second account stays inactive unless asked", func(t *testing.T) {
		f := newFixture(t)
		first := f.create(t, "Checking", false)

		second := f.create(t, "Savings", false)

		assert.False(t, second.IsActive)
		assert.True(t, f.stored(t, first.ID).IsActive)
	})

	t.Run("activating a new account deactivates the others", func(t *testing.T) {
		f := newFixture(t)
		first := f.create(t, "Checking", false)

		second := f.create(t, "Savings", true)

		assert.True(t, second.IsActive)
		assert.False(t, f.stored(t, first.ID).IsActive)
	})

	t.Run("caps the number of accounts", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < entity.MaxAccountsPerUser; i++ {
			f.create(t, "Account", false)
		}

		_, err := NewCreateAccountUseCase(f.uow).Execute(context.Background(), CreateAccountInput{UserID: f.userID, Name: "One too many"})

		assert.Equal(t, domainerror.ErrCodeAccountLimitReached, accountCode(t, err))
		assert.True(t, errors.Is(err, domainerror.ErrAccountLimitReached))

		accounts, err := f.repos.Accounts.FindByUser(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Len(t, accounts, entity.MaxAccountsPerUser)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name  string
			input CreateAccountInput
			code  domainerror.AccountErrorCode
		}{
			{name: "blank name", input: CreateAccountInput{Name: "   "}, code: domainerror.ErrCodeMissingAccountFields},
			{name: "long name", input: CreateAccountInput{Name: strings.Repeat("a", MaxAccountNameLength+1)}, code: domainerror.ErrCodeAccountNameTooLong},
			{
				name:  "long description",
				input: CreateAccountInput{Name: "Checking", Description: strings.Repeat("a", MaxAccountDescriptionLength+1)},
				code:  domainerror.ErrCodeAccountDescTooLong,
			},
			{name: "bad currency", input: CreateAccountInput{Name: "Checking", Currency: "EURO"}, code: domainerror.ErrCodeInvalidAccountCurrency},
			{name: "bad color", input: CreateAccountInput{Name: "Checking", Color: "blue"}, code: domainerror.ErrCodeInvalidAccountColor},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				tt.input.UserID = f.userID

				_, err := NewCreateAccountUseCase(f.uow).Execute(context.Background(), tt.input)

				assert.Equal(t, tt.code, accountCode(t, err))
			})
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, "Checking", false)
	second := f.create(t, "Savings", false)
	update := NewUpdateAccountUseCase(f.uow)

	t.Run("patches only the given fields", func(t *testing.T) {
		currency := "eur"
		balance := decimal.NewFromInt(99)
		output, err := update.Execute(ctx, UpdateAccountInput{
			AccountID: second.ID,
			UserID:    f.userID,
			Currency:  &currency,
			Balance:   &balance,
		})
		require.NoError(t, err)

		assert.Equal(t, "Savings", output.Account.Name)
		assert.Equal(t, "EUR", output.Account.Currency)
		assert.True(t, balance.Equal(f.stored(t, second.ID).Balance))
	})

	t.Run("activating switches the active account", func(t *testing.T) {
		active := true
		_, err := update.Execute(ctx, UpdateAccountInput{AccountID: second.ID, UserID: f.userID, IsActive: &active})
		require.NoError(t, err)

		assert.True(t, f.stored(t, second.ID).IsActive)
		assert.False(t, f.stored(t, first.ID).IsActive)

		list, err := NewListAccountsUseCase(f.repos.Accounts).Execute(ctx, ListAccountsInput{UserID: f.userID, ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, list.Accounts, 1)
		assert.Equal(t, second.ID, list.Accounts[0].ID)
	})

	t.Run("another user", func(t *testing.T) {
		name := "Mine"
		_, err := update.Execute(ctx, UpdateAccountInput{AccountID: first.ID, UserID: uuid.New(), Name: &name})
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToModifyAccount))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("keeps the last account", func(t *testing.T) {
		f := newFixture(t)
		only := f.create(t, "Checking", false)

		_, err := NewDeleteAccountUseCase(f.uow).Execute(context.Background(), DeleteAccountInput{AccountID: only.ID, UserID: f.userID})

		assert.Equal(t, domainerror.ErrCodeLastAccount, accountCode(t, err))
		f.stored(t, only.ID)
	})

	t.Run("promotes another account when the active one goes", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		active := f.create(t, "Checking", false)
		other := f.create(t, "Savings", false)

		output, err := NewDeleteAccountUseCase(f.uow).Execute(ctx, DeleteAccountInput{AccountID: active.ID, UserID: f.userID})
		require.NoError(t, err)
		assert.True(t, output.Success)

		_, err = f.repos.Accounts.FindByID(ctx, active.ID)
		assert.True(t, errors.Is(err, domainerror.ErrAccountNotFound))
		assert.True(t, f.stored(t, other.ID).IsActive)
	})

	t.Run("another user", func(t *testing.T) {
		f := newFixture(t)
		account := f.create(t, "Checking", false)
		f.create(t, "Savings", false)

		_, err := NewDeleteAccountUseCase(f.uow).Execute(context.Background(), DeleteAccountInput{AccountID: account.ID, UserID: uuid.New()})

		assert.Equal(t, domainerror.ErrCodeNotAuthorizedAccount, accountCode(t, err))
	})
}

func TestGetAndListAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, "Checking", false)
	second := f.create(t, "Savings", false)

	list, err := NewListAccountsUseCase(f.repos.Accounts).Execute(ctx, ListAccountsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, list.Accounts, 2)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, []uuid.UUID{list.Accounts[0].ID, list.Accounts[1].ID})

	get := NewGetAccountUseCase(f.repos.Accounts)
	output, err := get.Execute(ctx, GetAccountInput{AccountID: second.ID, UserID: f.userID})
	require.NoError(t, err)
	assert.Equal(t, "Savings", output.Account.Name)

	_, err = get.Execute(ctx, GetAccountInput{AccountID: second.ID, UserID: uuid.New()})
	assert.Equal(t, domainerror.ErrCodeAccountNotFound, accountCode(t, err))
}
