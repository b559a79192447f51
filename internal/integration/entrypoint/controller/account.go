package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recurring/internal/application/usecase/account"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
)

// AccountController handles account endpoints.
type AccountController struct {
	listUseCase   *account.ListAccountsUseCase
	getUseCase    *account.GetAccountUseCase
	createUseCase *account.CreateAccountUseCase
	updateUseCase *account.UpdateAccountUseCase
	deleteUseCase *account.DeleteAccountUseCase
}

// NewAccountController creates a new account controller instance.
func NewAccountController(
	listUseCase *account.ListAccountsUseCase,
	getUseCase *account.GetAccountUseCase,
	createUseCase *account.CreateAccountUseCase,
	updateUseCase *account.UpdateAccountUseCase,
	deleteUseCase *account.DeleteAccountUseCase,
) *AccountController {
	return &AccountController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /accounts requests. ?active=true returns only the active account.
func (c *AccountController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), account.ListAccountsInput{
		UserID:     userID,
		ActiveOnly: ctx.Query("active") == "true",
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountListResponse(output.Accounts))
}

// Get handles GET /accounts/:accountId requests.
func (c *AccountController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), account.GetAccountInput{
		AccountID: accountID,
		UserID:    userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountResponse(output.Account))
}

// Create handles POST /accounts requests.
func (c *AccountController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingAccountFields),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), account.CreateAccountInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Balance:     req.Balance,
		Currency:    req.Currency,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToAccountResponse(output.Account))
}

// Update handles PATCH /accounts/:accountId requests.
func (c *AccountController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), account.UpdateAccountInput{
		AccountID:   accountID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Balance:     req.Balance,
		Currency:    req.Currency,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountResponse(output.Account))
}

// Delete handles DELETE /accounts/:accountId requests.
func (c *AccountController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	accountID, ok := uuidParam(ctx, "accountId", "account")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), account.DeleteAccountInput{
		AccountID: accountID,
		UserID:    userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
