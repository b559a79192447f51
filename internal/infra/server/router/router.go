// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recurring/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                         *gin.Engine
	healthController               *controller.HealthController
	accountController              *controller.AccountController
	categoryController             *controller.CategoryController
	transactionController          *controller.TransactionController
	recurringTransactionController *controller.RecurringTransactionController
	budgetController               *controller.BudgetController
	processDueRateLimiter          *middleware.RateLimiter
	authMiddleware                 *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	accountController *controller.AccountController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	recurringTransactionController *controller.RecurringTransactionController,
	budgetController *controller.BudgetController,
	processDueRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:               healthController,
		accountController:              accountController,
		categoryController:             categoryController,
		transactionController:          transactionController,
		recurringTransactionController: recurringTransactionController,
		budgetController:               budgetController,
		processDueRateLimiter:          processDueRateLimiter,
		authMiddleware:                 authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every API route requires authentication.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.POST("", r.categoryController.Create)
			categories.PATCH("/:id", r.categoryController.Update)
			categories.DELETE("/:id", r.categoryController.Delete)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("", r.transactionController.Create)
			transactions.PATCH("/:id", r.transactionController.Update)
			transactions.DELETE("/:id", r.transactionController.Delete)
			transactions.POST("/bulk-delete", r.transactionController.BulkDelete)
		}

		recurring := v1.Group("/recurring-transactions")
		{
			recurring.GET("", r.recurringTransactionController.List)
			recurring.POST("", r.recurringTransactionController.Create)
			recurring.POST("/process-due", r.processDueRateLimiter.Middleware(), r.recurringTransactionController.ProcessDue)
			recurring.GET("/:id", r.recurringTransactionController.Get)
			recurring.PATCH("/:id", r.recurringTransactionController.Update)
			recurring.DELETE("/:id", r.recurringTransactionController.Delete)
			recurring.POST("/:id/pause", r.recurringTransactionController.Pause)
			recurring.POST("/:id/resume", r.recurringTransactionController.Resume)
			recurring.POST("/:id/process", r.recurringTransactionController.Process)
		}

		budgets := v1.Group("/budgets")
		{
			budgets.POST("", r.budgetController.Create)
			budgets.PATCH("/:id", r.budgetController.Update)
			budgets.DELETE("/:id", r.budgetController.Delete)
			budgets.POST("/:id/recalculate", r.budgetController.Recalculate)
			budgets.POST("/:id/categories", r.budgetController.AddCategory)
		}

		budgetCategories := v1.Group("/budget-categories")
		{
			budgetCategories.PATCH("/:id", r.budgetController.UpdateCategory)
			budgetCategories.DELETE("/:id", r.budgetController.DeleteCategory)
		}

		accounts := v1.Group("/accounts")
		{
			accounts.GET("", r.accountController.List)
			accounts.POST("", r.accountController.Create)
			accounts.GET("/:accountId", r.accountController.Get)
			accounts.PATCH("/:accountId", r.accountController.Update)
			accounts.DELETE("/:accountId", r.accountController.Delete)
			accounts.GET("/:accountId/transactions", r.transactionController.List)
			accounts.GET("/:accountId/budgets", r.budgetController.ListByAccount)
			accounts.GET("/:accountId/budgets/current", r.budgetController.Current)
		}
	}
}
