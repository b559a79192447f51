package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/usecase/recurring"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
)

// SweepTrigger runs a sweep over overdue templates on demand.
type SweepTrigger interface {
	RunNow(ctx context.Context) (*recurring.ProcessDueRecurringTransactionsOutput, error)
}

// RecurringTransactionController handles recurring transaction endpoints.
type RecurringTransactionController struct {
	createUseCase  *recurring.CreateRecurringTransactionUseCase
	updateUseCase  *recurring.UpdateRecurringTransactionUseCase
	pauseUseCase   *recurring.PauseRecurringTransactionUseCase
	resumeUseCase  *recurring.ResumeRecurringTransactionUseCase
	deleteUseCase  *recurring.DeleteRecurringTransactionUseCase
	getUseCase     *recurring.GetRecurringTransactionUseCase
	listUseCase    *recurring.ListRecurringTransactionsUseCase
	processUseCase *recurring.ProcessRecurringTransactionUseCase
	sweeper        SweepTrigger
}

// RecurringTransactionUseCases groups the use cases served by RecurringTransactionController.
type RecurringTransactionUseCases struct {
	Create  *recurring.CreateRecurringTransactionUseCase
	Update  *recurring.UpdateRecurringTransactionUseCase
	Pause   *recurring.PauseRecurringTransactionUseCase
	Resume  *recurring.ResumeRecurringTransactionUseCase
	Delete  *recurring.DeleteRecurringTransactionUseCase
	Get     *recurring.GetRecurringTransactionUseCase
	List    *recurring.ListRecurringTransactionsUseCase
	Process *recurring.ProcessRecurringTransactionUseCase
}

// NewRecurringTransactionController creates a new recurring transaction controller instance.
func NewRecurringTransactionController(useCases RecurringTransactionUseCases, sweeper SweepTrigger) *RecurringTransactionController {
	return &RecurringTransactionController{
		createUseCase:  useCases.Create,
		updateUseCase:  useCases.Update,
		pauseUseCase:   useCases.Pause,
		resumeUseCase:  useCases.Resume,
		deleteUseCase:  useCases.Delete,
		getUseCase:     useCases.Get,
		listUseCase:    useCases.List,
		processUseCase: useCases.Process,
		sweeper:        sweeper,
	}
}

// Create handles POST /recurring-transactions requests.
func (c *RecurringTransactionController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateRecurringTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingRecurringFields),
			Details: err.Error(),
		})
		return
	}

	startDate, err := dto.ParseDate(req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid start date format",
			Code:  string(domainerror.ErrCodeMissingRecurringFields),
		})
		return
	}

	input := recurring.CreateRecurringTransactionInput{
		UserID:                   userID,
		AccountID:                uuid.MustParse(req.AccountID),
		CategoryID:               uuid.MustParse(req.CategoryID),
		Description:              req.Description,
		Amount:                   req.Amount,
		Type:                     entity.TransactionType(req.Type),
		PaymentMethod:            entity.PaymentMethod(req.PaymentMethod),
		Frequency:                req.Frequency,
		StartDate:                startDate,
		Location:                 req.Location,
		Notes:                    req.Notes,
		Receipt:                  req.Receipt,
		CreateInitialTransaction: req.CreateInitialTransaction,
	}

	if req.EndDate != nil {
		endDate, err := dto.ParseDate(*req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date format",
				Code:  string(domainerror.ErrCodeInvalidEndDate),
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCreateRecurringTransactionResponse(output))
}

// List handles GET /recurring-transactions requests.
// The optional active query parameter restricts the list to active templates.
func (c *RecurringTransactionController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	activeOnly := false
	if activeStr := ctx.Query("active"); activeStr != "" {
		parsed, err := strconv.ParseBool(activeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid active parameter",
			})
			return
		}
		activeOnly = parsed
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), recurring.ListRecurringTransactionsInput{
		UserID:     userID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionListResponse(output.RecurringTransactions))
}

// Get handles GET /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), recurring.GetRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Update handles PATCH /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	var req dto.UpdateRecurringTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := recurring.UpdateRecurringTransactionInput{
		RecurringID:  recurringID,
		UserID:       userID,
		Description:  req.Description,
		Amount:       req.Amount,
		Frequency:    req.Frequency,
		ClearEndDate: req.ClearEndDate,
		Location:     req.Location,
		Notes:        req.Notes,
		Receipt:      req.Receipt,
	}

	var err error
	if input.AccountID, err = parseOptionalUUID(req.AccountID); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid account ID format"})
		return
	}
	if input.CategoryID, err = parseOptionalUUID(req.CategoryID); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid category ID format"})
		return
	}

	if req.EndDate != nil {
		endDate, err := dto.ParseDate(*req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date format",
				Code:  string(domainerror.ErrCodeInvalidEndDate),
			})
			return
		}
		input.EndDate = &endDate
	}
	if req.Type != nil {
		txnType := entity.TransactionType(*req.Type)
		input.Type = &txnType
	}
	if req.PaymentMethod != nil {
		method := entity.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Pause handles POST /recurring-transactions/:id/pause requests.
func (c *RecurringTransactionController) Pause(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	output, err := c.pauseUseCase.Execute(ctx.Request.Context(), recurring.PauseRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Resume handles POST /recurring-transactions/:id/resume requests.
func (c *RecurringTransactionController) Resume(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	output, err := c.resumeUseCase.Execute(ctx.Request.Context(), recurring.ResumeRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Delete handles DELETE /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), recurring.DeleteRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Process handles POST /recurring-transactions/:id/process requests.
// The template is checked for ownership first; processing itself is a no-op unless it is due.
func (c *RecurringTransactionController) Process(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recurringID, ok := uuidParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	if _, err := c.getUseCase.Execute(ctx.Request.Context(), recurring.GetRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	}); err != nil {
		handleDomainError(ctx, err)
		return
	}

	output, err := c.processUseCase.Execute(ctx.Request.Context(), recurring.ProcessRecurringTransactionInput{
		RecurringID: recurringID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProcessRecurringTransactionResponse(output))
}

// ProcessDue handles POST /recurring-transactions/process-due requests.
func (c *RecurringTransactionController) ProcessDue(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}

	output, err := c.sweeper.RunNow(ctx.Request.Context())
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ProcessDueResponse{
		Found:     output.Found,
		Processed: output.Processed,
		Failed:    output.Failed,
	})
}
