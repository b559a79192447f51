// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/account"
	"github.com/finance-tracker/recurring/internal/application/usecase/budget"
	"github.com/finance-tracker/recurring/internal/application/usecase/category"
	"github.com/finance-tracker/recurring/internal/application/usecase/ledger"
	"github.com/finance-tracker/recurring/internal/application/usecase/recurring"
	"github.com/finance-tracker/recurring/internal/application/usecase/transaction"
	"github.com/finance-tracker/recurring/internal/infra/cache"
	"github.com/finance-tracker/recurring/internal/infra/server/router"
	"github.com/finance-tracker/recurring/internal/integration/adapters"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/recurring/internal/integration/lock"
	"github.com/finance-tracker/recurring/internal/integration/persistence"
	"github.com/finance-tracker/recurring/internal/integration/scheduler"
)

// Injector holds all application dependencies.
type Injector struct {
	Config  *config.Config
	DB      *gorm.DB
	Router  *router.Router
	Timers  *scheduler.TimerScheduler
	Sweeper *scheduler.Sweeper
	Rearm   *recurring.RearmTimersUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case processing relies on the cursor
// compare-and-swap alone. A nil clock defaults to the system clock.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clock adapter.Clock) *Injector {
	if clock == nil {
		clock = adapters.NewSystemClock()
	}

	// Create repositories
	uow := persistence.NewUnitOfWork(db)
	accountRepo := persistence.NewAccountRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	recurringRepo := persistence.NewRecurringTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	ledgerUpdater := ledger.NewUpdater()
	timers := scheduler.NewTimerScheduler(cfg.Scheduler.ProcessTimeout)

	var locker adapter.Locker
	var redisHealthChecker func() bool
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient)
		redisHealthChecker = cache.HealthCheck(redisClient)
	}

	// Create recurring use cases
	processUseCase := recurring.NewProcessRecurringTransactionUseCase(uow, timers, locker, clock, ledgerUpdater, cfg.Redis.LockTTL)
	processDueUseCase := recurring.NewProcessDueRecurringTransactionsUseCase(recurringRepo, processUseCase, clock, cfg.Scheduler.BatchSize)
	recurringUseCases := controller.RecurringTransactionUseCases{
		Create:  recurring.NewCreateRecurringTransactionUseCase(uow, timers, clock, ledgerUpdater),
		Update:  recurring.NewUpdateRecurringTransactionUseCase(uow, timers, clock),
		Pause:   recurring.NewPauseRecurringTransactionUseCase(uow, timers, clock),
		Resume:  recurring.NewResumeRecurringTransactionUseCase(uow, timers, clock),
		Delete:  recurring.NewDeleteRecurringTransactionUseCase(uow, timers),
		Get:     recurring.NewGetRecurringTransactionUseCase(recurringRepo, clock),
		List:    recurring.NewListRecurringTransactionsUseCase(recurringRepo, clock),
		Process: processUseCase,
	}
	rearmUseCase := recurring.NewRearmTimersUseCase(recurringRepo, timers, clock)

	timers.SetHandler(processHandler(processUseCase))

	sweeper := scheduler.NewSweeper(processDueUseCase, clock, scheduler.SweeperConfig{
		Interval:     cfg.Scheduler.SweepInterval,
		DailyHourUTC: cfg.Scheduler.DailySweepHourUTC,
	})

	// Create account use cases
	listAccountsUseCase := account.NewListAccountsUseCase(accountRepo)
	getAccountUseCase := account.NewGetAccountUseCase(accountRepo)
	createAccountUseCase := account.NewCreateAccountUseCase(uow)
	updateAccountUseCase := account.NewUpdateAccountUseCase(uow)
	deleteAccountUseCase := account.NewDeleteAccountUseCase(uow)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo, transactionRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(uow, ledgerUpdater)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(uow, ledgerUpdater)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(uow, ledgerUpdater)
	bulkDeleteTransactionsUseCase := transaction.NewBulkDeleteTransactionsUseCase(uow, ledgerUpdater)

	// Create budget use cases
	budgetUseCases := controller.BudgetUseCases{
		Create:         budget.NewCreateBudgetUseCase(uow),
		List:           budget.NewListBudgetsUseCase(budgetRepo),
		Current:        budget.NewGetCurrentBudgetUseCase(budgetRepo, clock),
		Update:         budget.NewUpdateBudgetUseCase(uow),
		Delete:         budget.NewDeleteBudgetUseCase(uow),
		Recalculate:    budget.NewRecalculateBudgetUseCase(uow),
		AddCategory:    budget.NewAddBudgetCategoryUseCase(uow),
		UpdateCategory: budget.NewUpdateBudgetCategoryUseCase(uow),
		DeleteCategory: budget.NewDeleteBudgetCategoryUseCase(uow),
	}

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, redisHealthChecker, timers.Pending)

	accountController := controller.NewAccountController(
		listAccountsUseCase,
		getAccountUseCase,
		createAccountUseCase,
		updateAccountUseCase,
		deleteAccountUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		bulkDeleteTransactionsUseCase,
	)

	recurringController := controller.NewRecurringTransactionController(recurringUseCases, sweeper)
	budgetController := controller.NewBudgetController(budgetUseCases)

	// Create middleware
	processDueRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Scheduler.ProcessDueLimit, time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		accountController,
		categoryController,
		transactionController,
		recurringController,
		budgetController,
		processDueRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:  cfg,
		DB:      db,
		Router:  r,
		Timers:  timers,
		Sweeper: sweeper,
		Rearm:   rearmUseCase,
	}
}

// processHandler adapts the processing use case to timer callbacks.
func processHandler(uc *recurring.ProcessRecurringTransactionUseCase) scheduler.Handler {
	return func(ctx context.Context, id uuid.UUID) {
		// Errors are logged by the use case; the sweep recovers anything left due.
		_, _ = uc.Execute(ctx, recurring.ProcessRecurringTransactionInput{RecurringID: id})
	}
}
