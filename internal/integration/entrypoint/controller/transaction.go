package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/recurring/internal/application/usecase/transaction"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase       *transaction.ListTransactionsUseCase
	createUseCase     *transaction.CreateTransactionUseCase
	updateUseCase     *transaction.UpdateTransactionUseCase
	deleteUseCase     *transaction.DeleteTransactionUseCase
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:       listUseCase,
		createUseCase:     createUseCase,
		updateUseCase:     updateUseCase,
		deleteUseCase:     deleteUseCase,
		bulkDeleteUseCase: bulkDeleteUseCase,
	}
}

// List handles GET /accounts/:accountId/transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), transaction.ListTransactionsInput{
		UserID:    userID,
		AccountID: accountID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingTransactionFields),
			Details: err.Error(),
		})
		return
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format",
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), transaction.CreateTransactionInput{
		UserID:        userID,
		AccountID:     uuid.MustParse(req.AccountID),
		CategoryID:    uuid.MustParse(req.CategoryID),
		Date:          date,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          entity.TransactionType(req.Type),
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Location:      req.Location,
		Notes:         req.Notes,
		Receipt:       req.Receipt,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	transactionID, ok := uuidParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Description:   req.Description,
		Amount:        req.Amount,
		Location:      req.Location,
		Notes:         req.Notes,
		Receipt:       req.Receipt,
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

	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid date format"})
			return
		}
		input.Date = &date
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

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	transactionID, ok := uuidParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// BulkDelete handles DELETE /transactions/bulk requests.
func (c *TransactionController) BulkDelete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkDeleteTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, idStr := range req.IDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid transaction ID format",
				Details: idStr,
			})
			return
		}
		ids = append(ids, id)
	}

	output, err := c.bulkDeleteUseCase.Execute(ctx.Request.Context(), transaction.BulkDeleteTransactionsInput{
		TransactionIDs: ids,
		UserID:         userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkDeleteTransactionsResponse{
		DeletedCount: output.DeletedCount,
	})
}
