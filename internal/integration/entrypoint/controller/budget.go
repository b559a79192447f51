package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/usecase/budget"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
)

// BudgetController handles budget and budget category endpoints.
type BudgetController struct {
	createUseCase         *budget.CreateBudgetUseCase
	listUseCase           *budget.ListBudgetsUseCase
	currentUseCase        *budget.GetCurrentBudgetUseCase
	updateUseCase         *budget.UpdateBudgetUseCase
	deleteUseCase         *budget.DeleteBudgetUseCase
	recalculateUseCase    *budget.RecalculateBudgetUseCase
	addCategoryUseCase    *budget.AddBudgetCategoryUseCase
	updateCategoryUseCase *budget.UpdateBudgetCategoryUseCase
	deleteCategoryUseCase *budget.DeleteBudgetCategoryUseCase
}

// BudgetUseCases groups the use cases served by BudgetController.
type BudgetUseCases struct {
	Create         *budget.CreateBudgetUseCase
	List           *budget.ListBudgetsUseCase
	Current        *budget.GetCurrentBudgetUseCase
	Update         *budget.UpdateBudgetUseCase
	Delete         *budget.DeleteBudgetUseCase
	Recalculate    *budget.RecalculateBudgetUseCase
	AddCategory    *budget.AddBudgetCategoryUseCase
	UpdateCategory *budget.UpdateBudgetCategoryUseCase
	DeleteCategory *budget.DeleteBudgetCategoryUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(useCases BudgetUseCases) *BudgetController {
	return &BudgetController{
		createUseCase:         useCases.Create,
		listUseCase:           useCases.List,
		currentUseCase:        useCases.Current,
		updateUseCase:         useCases.Update,
		deleteUseCase:         useCases.Delete,
		recalculateUseCase:    useCases.Recalculate,
		addCategoryUseCase:    useCases.AddCategory,
		updateCategoryUseCase: useCases.UpdateCategory,
		deleteCategoryUseCase: useCases.DeleteCategory,
	}
}

// Create handles POST /budgets requests.
func (c *BudgetController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingBudgetFields),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), budget.CreateBudgetInput{
		UserID:        userID,
		AccountID:     uuid.MustParse(req.AccountID),
		Month:         req.Month,
		TotalBudgeted: req.TotalBudgeted,
		TotalSpent:    req.TotalSpent,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBudgetResponse(output.Budget))
}

// ListByAccount handles GET /accounts/:accountId/budgets requests.
func (c *BudgetController) ListByAccount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), budget.ListBudgetsInput{
		UserID:    userID,
		AccountID: accountID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(output.Budgets))
}

// Current handles GET /accounts/:accountId/budgets/current requests.
func (c *BudgetController) Current(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	output, err := c.currentUseCase.Execute(ctx.Request.Context(), budget.GetCurrentBudgetInput{
		UserID:    userID,
		AccountID: accountID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	response := dto.CurrentBudgetResponse{}
	if output.Budget != nil {
		b := dto.ToBudgetResponse(output.Budget)
		response.Budget = &b
	}
	ctx.JSON(http.StatusOK, response)
}

// Update handles PATCH /budgets/:id requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetID, ok := uuidParam(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), budget.UpdateBudgetInput{
		BudgetID:      budgetID,
		UserID:        userID,
		TotalBudgeted: req.TotalBudgeted,
		TotalSpent:    req.TotalSpent,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// Delete handles DELETE /budgets/:id requests.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetID, ok := uuidParam(ctx, "id", "budget")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
	}); err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Recalculate handles POST /budgets/:id/recalculate requests.
func (c *BudgetController) Recalculate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetID, ok := uuidParam(ctx, "id", "budget")
	if !ok {
		return
	}

	output, err := c.recalculateUseCase.Execute(ctx.Request.Context(), budget.RecalculateBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// AddCategory handles POST /budgets/:id/categories requests.
func (c *BudgetController) AddCategory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetID, ok := uuidParam(ctx, "id", "budget")
	if !ok {
		return
	}

	var req dto.AddBudgetCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingBudgetFields),
			Details: err.Error(),
		})
		return
	}

	output, err := c.addCategoryUseCase.Execute(ctx.Request.Context(), budget.AddBudgetCategoryInput{
		BudgetID:   budgetID,
		UserID:     userID,
		CategoryID: uuid.MustParse(req.CategoryID),
		Name:       req.Name,
		Budgeted:   req.Budgeted,
		Spent:      req.Spent,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBudgetCategoryResponse(output.Category))
}

// UpdateCategory handles PATCH /budget-categories/:id requests.
func (c *BudgetController) UpdateCategory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetCategoryID, ok := uuidParam(ctx, "id", "budget category")
	if !ok {
		return
	}

	var req dto.UpdateBudgetCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateCategoryUseCase.Execute(ctx.Request.Context(), budget.UpdateBudgetCategoryInput{
		BudgetCategoryID: budgetCategoryID,
		UserID:           userID,
		Budgeted:         req.Budgeted,
		Spent:            req.Spent,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetCategoryResponse(output.Category))
}

// DeleteCategory handles DELETE /budget-categories/:id requests.
func (c *BudgetController) DeleteCategory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	budgetCategoryID, ok := uuidParam(ctx, "id", "budget category")
	if !ok {
		return
	}

	if err := c.deleteCategoryUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetCategoryInput{
		BudgetCategoryID: budgetCategoryID,
		UserID:           userID,
	}); err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
