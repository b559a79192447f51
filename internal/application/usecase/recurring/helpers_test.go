package recurring

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	infradb "github.com/finance-tracker/recurring/internal/infra/db"
	"github.com/finance-tracker/recurring/internal/integration/persistence"
	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
	"github.com/finance-tracker/recurring/test/integration/mock"
)

var testNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

// recordingScheduler keeps the last arm or cancel per template.
type recordingScheduler struct {
	mu        sync.Mutex
	armed     map[uuid.UUID]time.Duration
	cancelled map[uuid.UUID]bool
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{
		armed:     map[uuid.UUID]time.Duration{},
		cancelled: map[uuid.UUID]bool{},
	}
}

func (s *recordingScheduler) ScheduleAfter(id uuid.UUID, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[id] = delay
	delete(s.cancelled, id)
}

func (s *recordingScheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.armed, id)
	s.cancelled[id] = true
}

func (s *recordingScheduler) delay(id uuid.UUID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.armed[id]
	return d, ok
}

func (s *recordingScheduler) wasCancelled(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled[id]
}

type stubLocker struct {
	acquired bool
	err      error
	released atomic.Int32
}

func (l *stubLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if !l.acquired {
		return nil, false, nil
	}
	return func() { l.released.Add(1) }, true, nil
}

type fixture struct {
	db        *gorm.DB
	uow       adapter.UnitOfWork
	repos     adapter.Repositories
	clock     *mock.Time
	scheduler *recordingScheduler
	ledger    *ledger.Updater
	userID    uuid.UUID
	accountID uuid.UUID
	category  *entity.Category
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

	f := &fixture{
		db:        database.DB(),
		uow:       persistence.NewUnitOfWork(database.DB()),
		repos:     persistence.NewRepositories(database.DB()),
		clock:     mock.NewTime(testNow),
		scheduler: newRecordingScheduler(),
		ledger:    ledger.NewUpdater(),
		userID:    uuid.New(),
	}

	checking := entity.NewAccount(f.userID, "Checking", "", decimal.Zero, entity.DefaultAccountCurrency, "#6366F1", "wallet")
	checking.IsActive = true
	require.NoError(t, f.repos.Accounts.Create(context.Background(), checking))
	f.accountID = checking.ID

	f.category = entity.NewCategory(f.userID, "Rent", entity.DefaultCategoryColor, entity.DefaultCategoryIcon, entity.CategoryTypeExpense)
	require.NoError(t, f.repos.Categories.Create(context.Background(), f.category))

	return f
}

func (f *fixture) createUseCase() *CreateRecurringTransactionUseCase {
	return NewCreateRecurringTransactionUseCase(f.uow, f.scheduler, f.clock, f.ledger)
}

func (f *fixture) processUseCase(locker adapter.Locker) *ProcessRecurringTransactionUseCase {
	return NewProcessRecurringTransactionUseCase(f.uow, f.scheduler, locker, f.clock, f.ledger, time.Second)
}

func (f *fixture) createInput(frequency string, start time.Time) CreateRecurringTransactionInput {
	return CreateRecurringTransactionInput{
		UserID:        f.userID,
		AccountID:     f.accountID,
		CategoryID:    f.category.ID,
		Description:   "Apartment rent",
		Amount:        decimal.NewFromInt(50),
		Type:          entity.TransactionTypeExpense,
		PaymentMethod: entity.PaymentMethodBankTransfer,
		Frequency:     frequency,
		StartDate:     start,
	}
}

func (f *fixture) createTemplate(t *testing.T, frequency string, start time.Time, end *time.Time) *RecurringTransactionOutput {
	t.Helper()

	input := f.createInput(frequency, start)
	input.EndDate = end
	output, err := f.createUseCase().Execute(context.Background(), input)
	require.NoError(t, err)
	return output.RecurringTransaction
}

func (f *fixture) template(t *testing.T, id uuid.UUID) *entity.RecurringTransaction {
	t.Helper()

	recurring, err := f.repos.Recurring.FindByID(context.Background(), id)
	require.NoError(t, err)
	return recurring
}

func (f *fixture) countTransactions(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&model.TransactionModel{}).Count(&count).Error)
	return count
}

// createBudget creates a budget for month with the fixture category budgeted at 500.
func (f *fixture) createBudget(t *testing.T, month string) (*entity.Budget, *entity.BudgetCategory) {
	t.Helper()
	ctx := context.Background()

	budget := entity.NewBudget(f.userID, f.accountID, month, decimal.NewFromInt(500), decimal.Zero)
	require.NoError(t, f.repos.Budgets.CreateBudget(ctx, budget))

	category := entity.NewBudgetCategory(budget, f.category, "", decimal.NewFromInt(500), decimal.Zero)
	require.NoError(t, f.repos.Budgets.CreateCategory(ctx, category))

	return budget, category
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func requireSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	require.Truef(t, want.Equal(got), "expected %s, got %s", want, got)
}
