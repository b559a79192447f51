// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/middleware"
)

// currentUserID returns the authenticated user, writing a 401 when absent.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses a path parameter as a UUID, writing a 400 on failure.
func uuidParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses an optional UUID field of a request body.
func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handleDomainError maps coded domain errors to HTTP responses.
func handleDomainError(ctx *gin.Context, err error) {
	var (
		recErr *domainerror.RecurringError
		txnErr *domainerror.TransactionError
		budErr *domainerror.BudgetError
		catErr *domainerror.CategoryError
		accErr *domainerror.AccountError
	)

	switch {
	case errors.As(err, &recErr):
		ctx.JSON(getStatusCodeForRecurringError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
	case errors.As(err, &txnErr):
		ctx.JSON(getStatusCodeForTransactionError(txnErr.Code), dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
	case errors.As(err, &budErr):
		ctx.JSON(getStatusCodeForBudgetError(budErr.Code), dto.ErrorResponse{
			Error: budErr.Message,
			Code:  string(budErr.Code),
		})
	case errors.As(err, &catErr):
		ctx.JSON(getStatusCodeForCategoryError(catErr.Code), dto.ErrorResponse{
			Error: catErr.Message,
			Code:  string(catErr.Code),
		})
	case errors.As(err, &accErr):
		ctx.JSON(getStatusCodeForAccountError(accErr.Code), dto.ErrorResponse{
			Error: accErr.Message,
			Code:  string(accErr.Code),
		})
	default:
		slog.Error("Unhandled request error",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

// getStatusCodeForRecurringError maps recurring error codes to HTTP status codes.
func getStatusCodeForRecurringError(code domainerror.RecurringErrorCode) int {
	switch code {
	case domainerror.ErrCodeRecurringNotFound,
		domainerror.ErrCodeRecurringCategoryNotFound,
		domainerror.ErrCodeRecurringAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedRecurring:
		return http.StatusForbidden
	case domainerror.ErrCodeRecurringAlreadyActive:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidFrequency,
		domainerror.ErrCodeInvalidRecurringAmount,
		domainerror.ErrCodeInvalidEndDate,
		domainerror.ErrCodeInvalidPaymentMethod,
		domainerror.ErrCodeInvalidRecurringType,
		domainerror.ErrCodeRecurringDescriptionTooLong,
		domainerror.ErrCodeRecurringNotesTooLong,
		domainerror.ErrCodeMissingRecurringFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeTxnCategoryNotFound,
		domainerror.ErrCodeTxnAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedTransaction:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidTransactionType,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeNotesTooLong,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeTxnInvalidPaymentMethod:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForBudgetError maps budget error codes to HTTP status codes.
func getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeBudgetNotFound,
		domainerror.ErrCodeBudgetCategoryNotFound,
		domainerror.ErrCodeBudgetCategoryMissing,
		domainerror.ErrCodeBudgetAccountMissing:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedBudget:
		return http.StatusForbidden
	case domainerror.ErrCodeBudgetAlreadyExists,
		domainerror.ErrCodeBudgetCategoryExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidBudgetMonth,
		domainerror.ErrCodeInvalidBudgetAmount,
		domainerror.ErrCodeMissingBudgetFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForCategoryError maps category error codes to HTTP status codes.
func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryNameExists:
		return http.StatusConflict
	case domainerror.ErrCodeNotAuthorizedCategory:
		return http.StatusForbidden
	case domainerror.ErrCodeCategoryNameTooLong,
		domainerror.ErrCodeInvalidColorFormat,
		domainerror.ErrCodeInvalidCategoryType,
		domainerror.ErrCodeMissingCategoryFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForAccountError maps account error codes to HTTP status codes.
func getStatusCodeForAccountError(code domainerror.AccountErrorCode) int {
	switch code {
	case domainerror.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedAccount:
		return http.StatusForbidden
	case domainerror.ErrCodeAccountLimitReached,
		domainerror.ErrCodeLastAccount:
		return http.StatusConflict
	case domainerror.ErrCodeMissingAccountFields,
		domainerror.ErrCodeAccountNameTooLong,
		domainerror.ErrCodeAccountDescTooLong,
		domainerror.ErrCodeInvalidAccountColor,
		domainerror.ErrCodeInvalidAccountCurrency:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
