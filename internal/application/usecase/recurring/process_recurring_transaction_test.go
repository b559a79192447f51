package recurring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring/internal/domain/entity"
	"github.com/finance-tracker/recurring/internal/integration/lock"
)

func TestProcessRecurringTransaction_MaterializesDueTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)

	processedAt := time.Date(2025, time.February, 11, 10, 0, 0, 0, time.UTC)
	f.clock.SetCurrentTime(processedAt)

	output, err := f.processUseCase(nil).Execute(ctx, ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)
	require.NotNil(t, output.TransactionID)
	require.NotNil(t, output.NextDueDate)
	requireSameInstant(t, date(2025, time.March, 10), *output.NextDueDate)

	delay, armed := f.scheduler.delay(template.ID)
	require.True(t, armed)
	assert.Equal(t, date(2025, time.March, 10).Sub(processedAt), delay)

	stored := f.template(t, template.ID)
	requireSameInstant(t, date(2025, time.March, 10), stored.NextDueDate)
	require.NotNil(t, stored.LastProcessed)
	requireSameInstant(t, processedAt, *stored.LastProcessed)

	transaction, err := f.repos.Transactions.FindByID(ctx, *output.TransactionID)
	require.NoError(t, err)
	assert.True(t, transaction.IsRecurring)
	require.NotNil(t, transaction.RecurringID)
	assert.Equal(t, template.ID, *transaction.RecurringID)
	assert.Equal(t, "Rent", transaction.CategoryName)
	assert.Equal(t, "50", transaction.Amount.String())
	requireSameInstant(t, processedAt, transaction.Date)
}

func TestProcessRecurringTransaction_NotDueRearms(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "WEEKLY", date(2025, time.January, 14), nil)

	output, err := f.processUseCase(nil).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeNotDue, output.Outcome)
	assert.Nil(t, output.TransactionID)
	requireSameInstant(t, date(2025, time.January, 21), *output.NextDueDate)

	delay, armed := f.scheduler.delay(template.ID)
	require.True(t, armed)
	assert.Equal(t, date(2025, time.January, 21).Sub(testNow), delay)
	assert.Zero(t, f.countTransactions(t))
}

func TestProcessRecurringTransaction_InactiveTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.createTemplate(t, "DAILY", date(2025, time.January, 10), nil)

	_, err := NewPauseRecurringTransactionUseCase(f.uow, f.scheduler, f.clock).Execute(ctx, PauseRecurringTransactionInput{
		RecurringID: template.ID,
		UserID:      f.userID,
	})
	require.NoError(t, err)

	output, err := f.processUseCase(nil).Execute(ctx, ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeInactive, output.Outcome)
	assert.True(t, f.scheduler.wasCancelled(template.ID))
	assert.Zero(t, f.countTransactions(t))
}

func TestProcessRecurringTransaction_VanishedTemplate(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	output, err := f.processUseCase(nil).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: id})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeNotFound, output.Outcome)
	assert.True(t, f.scheduler.wasCancelled(id))
}

func TestProcessRecurringTransaction_ExpiresPastEndDate(t *testing.T) {
	f := newFixture(t)
	end := date(2025, time.February, 5)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), &end)

	f.clock.SetCurrentTime(date(2025, time.February, 11))

	output, err := f.processUseCase(nil).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeExpired, output.Outcome)
	assert.True(t, f.scheduler.wasCancelled(template.ID))
	assert.Zero(t, f.countTransactions(t))

	stored := f.template(t, template.ID)
	assert.False(t, stored.IsActive)
	assert.Equal(t, entity.RecurringStateExpired, stored.State(f.clock.Now()))
	requireSameInstant(t, date(2025, time.February, 10), stored.NextDueDate)
	assert.Nil(t, stored.LastProcessed, "expiry leaves the processing history alone")
}

func TestProcessRecurringTransaction_EndDateIsInclusive(t *testing.T) {
	f := newFixture(t)
	end := date(2025, time.February, 10)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), &end)

	f.clock.SetCurrentTime(end)

	output, err := f.processUseCase(nil).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)
	assert.Equal(t, int64(1), f.countTransactions(t))
}

func TestProcessRecurringTransaction_SkipsMissedPeriods(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "DAILY", date(2025, time.January, 15), nil)

	f.clock.SetCurrentTime(time.Date(2025, time.January, 25, 10, 0, 0, 0, time.UTC))

	output, err := f.processUseCase(nil).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)
	requireSameInstant(t, date(2025, time.January, 26), *output.NextDueDate)
	assert.Equal(t, int64(1), f.countTransactions(t))
}

func TestProcessRecurringTransaction_ConcurrentInvocationsMaterializeOnce(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)
	f.clock.SetCurrentTime(date(2025, time.February, 11))

	outcomes := runConcurrently(t, 8, f.processUseCase(nil), template.ID)

	assert.Equal(t, 1, outcomes[ProcessOutcomeMaterialized])
	assert.Equal(t, 7, outcomes[ProcessOutcomeNotDue]+outcomes[ProcessOutcomeConflict])
	assert.Equal(t, int64(1), f.countTransactions(t))
	requireSameInstant(t, date(2025, time.March, 10), f.template(t, template.ID).NextDueDate)
}

func TestProcessRecurringTransaction_ConcurrentInvocationsWithRedisLock(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)
	f.clock.SetCurrentTime(date(2025, time.February, 11))

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	outcomes := runConcurrently(t, 8, f.processUseCase(lock.NewRedisLocker(client)), template.ID)

	assert.Equal(t, 1, outcomes[ProcessOutcomeMaterialized])
	assert.Equal(t, 7, outcomes[ProcessOutcomeLocked]+outcomes[ProcessOutcomeNotDue]+outcomes[ProcessOutcomeConflict])
	assert.Equal(t, int64(1), f.countTransactions(t))
	assert.False(t, server.Exists(LockKey(template.ID)), "lock must be released")
}

func TestProcessRecurringTransaction_LockHeldElsewhere(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)
	f.clock.SetCurrentTime(date(2025, time.February, 11))

	output, err := f.processUseCase(&stubLocker{acquired: false}).Execute(context.Background(), ProcessRecurringTransactionInput{
		RecurringID: template.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeLocked, output.Outcome)
	assert.Zero(t, f.countTransactions(t))
}

func TestProcessRecurringTransaction_LockReleasedAfterProcessing(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)
	f.clock.SetCurrentTime(date(2025, time.February, 11))
	locker := &stubLocker{acquired: true}

	output, err := f.processUseCase(locker).Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: template.ID})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)
	assert.Equal(t, int32(1), locker.released.Load())
}

func TestProcessRecurringTransaction_LockErrorFallsBackToCursor(t *testing.T) {
	f := newFixture(t)
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)
	f.clock.SetCurrentTime(date(2025, time.February, 11))

	output, err := f.processUseCase(&stubLocker{err: errors.New("redis: connection refused")}).Execute(context.Background(), ProcessRecurringTransactionInput{
		RecurringID: template.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)
	assert.Equal(t, int64(1), f.countTransactions(t))
}

func TestProcessRecurringTransaction_UpdatesBudgetOfProcessingMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	january, januaryCategory := f.createBudget(t, "2025-01")
	february, februaryCategory := f.createBudget(t, "2025-02")
	template := f.createTemplate(t, "MONTHLY", date(2025, time.January, 10), nil)

	f.clock.SetCurrentTime(date(2025, time.February, 11))
	_, err := f.processUseCase(nil).Execute(ctx, ProcessRecurringTransactionInput{RecurringID: template.ID})
	require.NoError(t, err)

	category, err := f.repos.Budgets.FindCategoryByID(ctx, februaryCategory.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", category.Spent.String())

	budget, err := f.repos.Budgets.FindBudgetByID(ctx, february.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", budget.TotalSpent.String())

	untouched, err := f.repos.Budgets.FindCategoryByID(ctx, januaryCategory.ID)
	require.NoError(t, err)
	assert.True(t, untouched.Spent.IsZero())

	untouchedBudget, err := f.repos.Budgets.FindBudgetByID(ctx, january.ID)
	require.NoError(t, err)
	assert.True(t, untouchedBudget.TotalSpent.IsZero())
}

func TestProcessRecurringTransaction_IncomeLeavesBudgetsAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	budget, _ := f.createBudget(t, "2025-02")

	input := f.createInput("MONTHLY", date(2025, time.January, 10))
	input.Type = entity.TransactionTypeIncome
	input.Amount = decimal.RequireFromString("25.5")
	created, err := f.createUseCase().Execute(ctx, input)
	require.NoError(t, err)

	f.clock.SetCurrentTime(date(2025, time.February, 11))
	output, err := f.processUseCase(nil).Execute(ctx, ProcessRecurringTransactionInput{RecurringID: created.RecurringTransaction.ID})
	require.NoError(t, err)
	assert.Equal(t, ProcessOutcomeMaterialized, output.Outcome)

	stored, err := f.repos.Budgets.FindBudgetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalSpent.IsZero())
}

func runConcurrently(t *testing.T, n int, uc *ProcessRecurringTransactionUseCase, id uuid.UUID) map[ProcessOutcome]int {
	t.Helper()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[ProcessOutcome]int{}
		errs     []error
	)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			output, err := uc.Execute(context.Background(), ProcessRecurringTransactionInput{RecurringID: id})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			outcomes[output.Outcome]++
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	return outcomes
}
