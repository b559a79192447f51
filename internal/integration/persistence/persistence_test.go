package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	infradb "github.com/finance-tracker/recurring/internal/infra/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := infradb.NewConnection(&config.DatabaseConfig{
		Driver: infradb.DriverSQLite,
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(Models()...))
	return database.DB()
}

func newTemplate(t *testing.T, repos adapter.Repositories, start time.Time) *entity.RecurringTransaction {
	t.Helper()
	ctx := context.Background()

	userID := uuid.New()
	category := entity.NewCategory(userID, "Rent", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
	require.NoError(t, repos.Categories.Create(ctx, category))

	template, err := entity.NewRecurringTransaction(
		userID, uuid.New(), category, "Rent", decimal.NewFromInt(50),
		entity.TransactionTypeExpense, entity.PaymentMethodBankTransfer, entity.FrequencyMonthly, start, nil,
	)
	require.NoError(t, err)
	require.NoError(t, repos.Recurring.Create(ctx, template))
	return template
}

func TestRecurringRepository_AdvanceCursor(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	template := newTemplate(t, repos, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
	processedAt := time.Date(2025, time.February, 11, 10, 0, 0, 0, time.UTC)
	next := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	moved, err := repos.Recurring.AdvanceCursor(ctx, template.ID, template.NextDueDate, next, processedAt)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repos.Recurring.AdvanceCursor(ctx, template.ID, template.NextDueDate, next.AddDate(0, 1, 0), processedAt)
	require.NoError(t, err)
	assert.False(t, moved, "a stale cursor must not move")

	stored, err := repos.Recurring.FindByID(ctx, template.ID)
	require.NoError(t, err)
	assert.True(t, next.Equal(stored.NextDueDate))
	require.NotNil(t, stored.LastProcessed)
	assert.True(t, processedAt.Equal(*stored.LastProcessed))

	stored.Pause()
	require.NoError(t, repos.Recurring.Update(ctx, stored))
	moved, err = repos.Recurring.AdvanceCursor(ctx, template.ID, next, next.AddDate(0, 1, 0), processedAt)
	require.NoError(t, err)
	assert.False(t, moved, "an inactive template must not move")
}

func TestRecurringRepository_FindDue(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)

	early := newTemplate(t, repos, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	onTime := newTemplate(t, repos, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	newTemplate(t, repos, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
	paused := newTemplate(t, repos, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
	paused.Pause()
	require.NoError(t, repos.Recurring.Update(ctx, paused))

	due, err := repos.Recurring.FindDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, early.ID, due[0].ID)
	assert.Equal(t, onTime.ID, due[1].ID, "a cursor equal to now is due")

	limited, err := repos.Recurring.FindDue(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecurringRepository_Delete(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	template := newTemplate(t, repos, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))

	transaction := template.Materialize(time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repos.Transactions.Create(ctx, transaction))

	require.NoError(t, repos.Recurring.Delete(ctx, template.ID))
	assert.True(t, errors.Is(repos.Recurring.Delete(ctx, template.ID), domainerror.ErrRecurringTransactionNotFound))

	_, err := repos.Recurring.FindByID(ctx, template.ID)
	assert.True(t, errors.Is(err, domainerror.ErrRecurringTransactionNotFound))

	kept, err := repos.Transactions.FindByRecurring(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.True(t, kept[0].IsRecurring)
}

func TestUnitOfWork_RollsBack(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	repos := NewRepositories(db)
	ctx := context.Background()
	userID := uuid.New()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(ctx context.Context, tx adapter.Repositories) error {
		category := entity.NewCategory(userID, "Rent", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
		if err := tx.Categories.Create(ctx, category); err != nil {
			return err
		}
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	categories, err := repos.Categories.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, categories)

	err = uow.Do(ctx, func(ctx context.Context, tx adapter.Repositories) error {
		category := entity.NewCategory(userID, "Rent", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
		return tx.Categories.Create(ctx, category)
	})
	require.NoError(t, err)

	categories, err = repos.Categories.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestBudgetRepository_Increments(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	accountID := uuid.New()
	category := entity.NewCategory(userID, "Groceries", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
	require.NoError(t, repos.Categories.Create(ctx, category))

	budget := entity.NewBudget(userID, accountID, "2025-02", decimal.NewFromInt(500), decimal.Zero)
	require.NoError(t, repos.Budgets.CreateBudget(ctx, budget))
	budgetCategory := entity.NewBudgetCategory(budget, category, "", decimal.NewFromInt(500), decimal.Zero)
	require.NoError(t, repos.Budgets.CreateCategory(ctx, budgetCategory))

	found, err := repos.Budgets.FindBudgetByScope(ctx, userID, accountID, "2025-02")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, budget.ID, found.ID)

	missing, err := repos.Budgets.FindBudgetByScope(ctx, userID, accountID, "2025-03")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repos.Budgets.AddToCategorySpent(ctx, budgetCategory.ID, decimal.RequireFromString("25.5")))
	require.NoError(t, repos.Budgets.AddToCategorySpent(ctx, budgetCategory.ID, decimal.NewFromInt(-5)))
	require.NoError(t, repos.Budgets.AddToBudgetTotals(ctx, budget.ID, decimal.Zero, decimal.RequireFromString("20.5")))

	inBudget, err := repos.Budgets.FindCategoryInBudget(ctx, budget.ID, category.ID)
	require.NoError(t, err)
	require.NotNil(t, inBudget)
	assert.True(t, decimal.RequireFromString("20.5").Equal(inBudget.Spent), "got %s", inBudget.Spent)

	stored, err := repos.Budgets.FindBudgetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.5").Equal(stored.TotalSpent), "got %s", stored.TotalSpent)
	assert.True(t, decimal.NewFromInt(500).Equal(stored.TotalBudgeted))

	require.NoError(t, repos.Budgets.AddToCategoryTotals(ctx, budgetCategory.ID, decimal.NewFromInt(100), decimal.RequireFromString("4.5")))
	locked, err := repos.Budgets.FindCategoryByIDForUpdate(ctx, budgetCategory.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600).Equal(locked.Budgeted), "got %s", locked.Budgeted)
	assert.True(t, decimal.NewFromInt(25).Equal(locked.Spent), "got %s", locked.Spent)

	err = repos.Budgets.AddToCategoryTotals(ctx, uuid.New(), decimal.Zero, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domainerror.ErrBudgetCategoryNotFound))
}
