package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// budgetRepositoryMock records the ledger calls made through adapter.BudgetRepository.
type budgetRepositoryMock struct {
	mock.Mock
	adapter.BudgetRepository
}

func (m *budgetRepositoryMock) FindBudgetByScope(ctx context.Context, userID, accountID uuid.UUID, month string) (*entity.Budget, error) {
	args := m.Called(ctx, userID, accountID, month)
	budget, _ := args.Get(0).(*entity.Budget)
	return budget, args.Error(1)
}

func (m *budgetRepositoryMock) FindCategoryInBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*entity.BudgetCategory, error) {
	args := m.Called(ctx, budgetID, categoryID)
	category, _ := args.Get(0).(*entity.BudgetCategory)
	return category, args.Error(1)
}

func (m *budgetRepositoryMock) AddToCategorySpent(ctx context.Context, budgetCategoryID uuid.UUID, delta decimal.Decimal) error {
	return m.Called(ctx, budgetCategoryID, delta.String()).Error(0)
}

func (m *budgetRepositoryMock) AddToBudgetTotals(ctx context.Context, budgetID uuid.UUID, budgetedDelta, spentDelta decimal.Decimal) error {
	return m.Called(ctx, budgetID, budgetedDelta.String(), spentDelta.String()).Error(0)
}

func newExpense(amount string, date time.Time) *entity.Transaction {
	category := entity.NewCategory(uuid.New(), "Groceries", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
	return entity.NewTransaction(
		category.UserID,
		uuid.New(),
		category,
		"Supermarket",
		decimal.RequireFromString(amount),
		entity.TransactionTypeExpense,
		entity.PaymentMethodDebitCard,
		date,
	)
}

func sumOf(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

func TestCreateAndDeleteDeltas(t *testing.T) {
	expense := newExpense("50", time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC))

	created := CreateDeltas(expense)
	require.Len(t, created, 1)
	assert.Equal(t, "50", created[0].Amount.String())
	assert.Equal(t, "2025-02", created[0].Month)
	assert.Equal(t, expense.CategoryID, created[0].CategoryID)

	deleted := DeleteDeltas(expense)
	require.Len(t, deleted, 1)
	assert.Equal(t, "-50", deleted[0].Amount.String())

	income := newExpense("50", expense.Date)
	income.Type = entity.TransactionTypeIncome
	assert.Empty(t, CreateDeltas(income))
	assert.Empty(t, DeleteDeltas(income))
}

func TestEditDeltas(t *testing.T) {
	february := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)

	t.Run("amount change in the same scope applies the difference", func(t *testing.T) {
		before := newExpense("50", february)
		after := *before
		after.Amount = decimal.RequireFromString("25.5")

		entries := EditDeltas(before, &after)

		require.Len(t, entries, 1)
		assert.Equal(t, "-24.5", entries[0].Amount.String())
	})

	t.Run("unchanged amount yields nothing", func(t *testing.T) {
		before := newExpense("50", february)
		after := *before
		after.Description = "Renamed"

		assert.Empty(t, EditDeltas(before, &after))
	})

	t.Run("category change reverses and reapplies", func(t *testing.T) {
		before := newExpense("50", february)
		after := *before
		after.CategoryID = uuid.New()

		entries := EditDeltas(before, &after)

		require.Len(t, entries, 2)
		assert.Equal(t, before.CategoryID, entries[0].CategoryID)
		assert.Equal(t, "-50", entries[0].Amount.String())
		assert.Equal(t, after.CategoryID, entries[1].CategoryID)
		assert.Equal(t, "50", entries[1].Amount.String())
	})

	t.Run("month change moves the contribution", func(t *testing.T) {
		before := newExpense("50", february)
		after := *before
		after.Date = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

		entries := EditDeltas(before, &after)

		require.Len(t, entries, 2)
		assert.Equal(t, "2025-02", entries[0].Month)
		assert.Equal(t, "2025-03", entries[1].Month)
		assert.True(t, sumOf(entries).IsZero())
	})

	t.Run("expense turned income only reverses", func(t *testing.T) {
		before := newExpense("50", february)
		after := *before
		after.Type = entity.TransactionTypeIncome

		entries := EditDeltas(before, &after)

		require.Len(t, entries, 1)
		assert.Equal(t, "-50", entries[0].Amount.String())
	})

	t.Run("income turned expense only applies", func(t *testing.T) {
		before := newExpense("50", february)
		before.Type = entity.TransactionTypeIncome
		after := *before
		after.Type = entity.TransactionTypeExpense

		entries := EditDeltas(before, &after)

		require.Len(t, entries, 1)
		assert.Equal(t, "50", entries[0].Amount.String())
	})
}

func TestUpdater_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	expense := newExpense("50", time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC))
	entry := CreateDeltas(expense)[0]
	budget := entity.NewBudget(expense.UserID, expense.AccountID, "2025-02", decimal.NewFromInt(500), decimal.Zero)

	t.Run("no budget is a no-op", func(t *testing.T) {
		repo := &budgetRepositoryMock{}
		repo.On("FindBudgetByScope", ctx, entry.UserID, entry.AccountID, "2025-02").Return(nil, nil)

		require.NoError(t, NewUpdater().ApplyDelta(ctx, repo, entry))

		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "AddToBudgetTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("budget with the category updates both aggregates", func(t *testing.T) {
		category := &entity.BudgetCategory{ID: uuid.New(), BudgetID: budget.ID, CategoryID: entry.CategoryID}
		repo := &budgetRepositoryMock{}
		repo.On("FindBudgetByScope", ctx, entry.UserID, entry.AccountID, "2025-02").Return(budget, nil)
		repo.On("FindCategoryInBudget", ctx, budget.ID, entry.CategoryID).Return(category, nil)
		repo.On("AddToCategorySpent", ctx, category.ID, "50").Return(nil)
		repo.On("AddToBudgetTotals", ctx, budget.ID, "0", "50").Return(nil)

		require.NoError(t, NewUpdater().ApplyDelta(ctx, repo, entry))

		repo.AssertExpectations(t)
	})

	t.Run("budget without the category still moves the total", func(t *testing.T) {
		repo := &budgetRepositoryMock{}
		repo.On("FindBudgetByScope", ctx, entry.UserID, entry.AccountID, "2025-02").Return(budget, nil)
		repo.On("FindCategoryInBudget", ctx, budget.ID, entry.CategoryID).Return(nil, nil)
		repo.On("AddToBudgetTotals", ctx, budget.ID, "0", "50").Return(nil)

		require.NoError(t, NewUpdater().ApplyDelta(ctx, repo, entry))

		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "AddToCategorySpent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero entries touch nothing", func(t *testing.T) {
		repo := &budgetRepositoryMock{}
		zero := entry
		zero.Amount = decimal.Zero

		require.NoError(t, NewUpdater().ApplyDelta(ctx, repo, zero))

		repo.AssertNotCalled(t, "FindBudgetByScope", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository failures stop the batch", func(t *testing.T) {
		repo := &budgetRepositoryMock{}
		repo.On("FindBudgetByScope", ctx, entry.UserID, entry.AccountID, "2025-02").Return(nil, errors.New("connection reset")).Once()

		err := NewUpdater().Apply(ctx, repo, entry, entry)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		repo.AssertNumberOfCalls(t, "FindBudgetByScope", 1)
	})
}
