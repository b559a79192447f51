package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T, frequency Frequency, start time.Time, end *time.Time) *RecurringTransaction {
	t.Helper()

	category := NewCategory(uuid.New(), "Rent", DefaultCategoryColor, DefaultCategoryIcon, CategoryTypeExpense)
	recurring, err := NewRecurringTransaction(
		category.UserID,
		uuid.New(),
		category,
		"Apartment rent",
		decimal.NewFromInt(50),
		TransactionTypeExpense,
		PaymentMethodBankTransfer,
		frequency,
		start,
		end,
	)
	require.NoError(t, err)
	return recurring
}

func TestNewRecurringTransaction(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	recurring := newTestTemplate(t, FrequencyMonthly, start, nil)

	assert.NotEqual(t, uuid.Nil, recurring.ID)
	assert.True(t, recurring.IsActive)
	assert.Equal(t, "Rent", recurring.CategoryName)
	assert.Equal(t, start, recurring.StartDate)
	assert.Equal(t, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), recurring.NextDueDate)
	assert.Nil(t, recurring.LastProcessed)
}

func TestRecurringTransaction_State(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	t.Run("active before the cursor is pending", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, &end)
		assert.Equal(t, RecurringStateActivePending, recurring.State(start.AddDate(0, 0, 5)))
	})

	t.Run("active at the cursor is due", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, &end)
		assert.Equal(t, RecurringStateActiveDue, recurring.State(recurring.NextDueDate))
	})

	t.Run("inactive before the end date is paused", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, &end)
		recurring.Pause()
		assert.Equal(t, RecurringStatePaused, recurring.State(start.AddDate(0, 2, 0)))
	})

	t.Run("inactive past the end date is expired", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, &end)
		recurring.Expire()
		assert.Equal(t, RecurringStateExpired, recurring.State(end.Add(time.Second)))
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, &end)
		assert.False(t, recurring.HasExpired(end))
		assert.True(t, recurring.HasExpired(end.Add(time.Nanosecond)))
	})
}

func TestRecurringTransaction_DelayUntilDue(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	recurring := newTestTemplate(t, FrequencyDaily, start, nil)

	assert.Equal(t, 6*time.Hour, recurring.DelayUntilDue(recurring.NextDueDate.Add(-6*time.Hour)))
	assert.Equal(t, time.Duration(0), recurring.DelayUntilDue(recurring.NextDueDate.Add(time.Hour)))
}

func TestRecurringTransaction_Advance(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("steps one period when on time", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyMonthly, start, nil)
		now := time.Date(2025, time.February, 10, 0, 5, 0, 0, time.UTC)

		require.NoError(t, recurring.Advance(now))

		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), recurring.NextDueDate)
		require.NotNil(t, recurring.LastProcessed)
		assert.Equal(t, now, *recurring.LastProcessed)
	})

	t.Run("skips missed periods", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyWeekly, start, nil)
		now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, recurring.Advance(now))

		assert.Equal(t, time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC), recurring.NextDueDate)
		assert.True(t, recurring.NextDueDate.After(now))
	})

	t.Run("lands strictly after now when now is a period boundary", func(t *testing.T) {
		recurring := newTestTemplate(t, FrequencyDaily, start, nil)
		now := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

		require.NoError(t, recurring.Advance(now))

		assert.Equal(t, time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC), recurring.NextDueDate)
	})
}

func TestRecurringTransaction_PauseAndResume(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	recurring := newTestTemplate(t, FrequencyMonthly, start, nil)
	frozen := recurring.NextDueDate

	recurring.Pause()
	assert.False(t, recurring.IsActive)
	assert.Equal(t, frozen, recurring.NextDueDate)
	assert.False(t, recurring.IsDue(frozen.AddDate(1, 0, 0)))

	resumedAt := time.Date(2025, time.May, 20, 15, 30, 0, 0, time.UTC)
	require.NoError(t, recurring.Resume(resumedAt))

	assert.True(t, recurring.IsActive)
	assert.Equal(t, time.Date(2025, time.June, 20, 15, 30, 0, 0, time.UTC), recurring.NextDueDate)
}

func TestRecurringTransaction_ChangeFrequency(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	recurring := newTestTemplate(t, FrequencyMonthly, start, nil)

	require.NoError(t, recurring.ChangeFrequency(FrequencyWeekly))

	assert.Equal(t, FrequencyWeekly, recurring.Frequency)
	assert.Equal(t, time.Date(2025, time.February, 17, 0, 0, 0, 0, time.UTC), recurring.NextDueDate)

	assert.Error(t, recurring.ChangeFrequency(Frequency("HOURLY")))
	assert.Equal(t, FrequencyWeekly, recurring.Frequency)
}

func TestRecurringTransaction_Materialize(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	recurring := newTestTemplate(t, FrequencyMonthly, start, nil)
	recurring.Notes = "landlord"
	now := time.Date(2025, time.February, 11, 10, 0, 0, 0, time.UTC)

	transaction := recurring.Materialize(now)

	assert.NotEqual(t, uuid.Nil, transaction.ID)
	assert.Equal(t, recurring.UserID, transaction.UserID)
	assert.Equal(t, recurring.AccountID, transaction.AccountID)
	assert.Equal(t, recurring.CategoryID, transaction.CategoryID)
	assert.Equal(t, "Rent", transaction.CategoryName)
	assert.True(t, recurring.Amount.Equal(transaction.Amount))
	assert.Equal(t, "landlord", transaction.Notes)
	assert.Equal(t, now, transaction.Date)
	assert.True(t, transaction.IsRecurring)
	require.NotNil(t, transaction.RecurringID)
	assert.Equal(t, recurring.ID, *transaction.RecurringID)
	assert.Equal(t, "2025-02", transaction.Month())
}
