package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/usecase/transaction"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	AccountID     string          `json:"account_id" binding:"required,uuid"`
	CategoryID    string          `json:"category_id" binding:"required,uuid"`
	Date          string          `json:"date" binding:"required"`
	Description   string          `json:"description" binding:"required,min=1,max=255"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type" binding:"required,oneof=expense income"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Location      string          `json:"location,omitempty"`
	Notes         string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Receipt       string          `json:"receipt,omitempty"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	AccountID     *string          `json:"account_id,omitempty" binding:"omitempty,uuid"`
	CategoryID    *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Date          *string          `json:"date,omitempty"`
	Description   *string          `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Type          *string          `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Notes         *string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Receipt       *string          `json:"receipt,omitempty"`
}

// BulkDeleteTransactionsRequest represents the request body for bulk transaction deletion.
type BulkDeleteTransactionsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountID     string    `json:"account_id"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	Amount        string    `json:"amount"`
	Type          string    `json:"type"`
	PaymentMethod string    `json:"payment_method"`
	Location      string    `json:"location,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Receipt       string    `json:"receipt,omitempty"`
	IsRecurring   bool      `json:"is_recurring"`
	RecurringID   *string   `json:"recurring_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TransactionTotalsResponse represents aggregated totals in API responses.
type TransactionTotalsResponse struct {
	IncomeTotal  string `json:"income_total"`
	ExpenseTotal string `json:"expense_total"`
	NetTotal     string `json:"net_total"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse     `json:"transactions"`
	Totals       TransactionTotalsResponse `json:"totals"`
}

// BulkDeleteTransactionsResponse represents the response for bulk transaction deletion.
type BulkDeleteTransactionsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *transaction.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:            txn.ID.String(),
		UserID:        txn.UserID.String(),
		AccountID:     txn.AccountID.String(),
		CategoryID:    txn.CategoryID.String(),
		CategoryName:  txn.CategoryName,
		Date:          formatTime(txn.Date),
		Description:   txn.Description,
		Amount:        txn.Amount.String(),
		Type:          string(txn.Type),
		PaymentMethod: string(txn.PaymentMethod),
		Location:      txn.Location,
		Notes:         txn.Notes,
		Receipt:       txn.Receipt,
		IsRecurring:   txn.IsRecurring,
		CreatedAt:     txn.CreatedAt,
		UpdatedAt:     txn.UpdatedAt,
	}

	if txn.RecurringID != nil {
		recurringID := txn.RecurringID.String()
		response.RecurringID = &recurringID
	}

	return response
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = ToTransactionResponse(txn)
	}

	return TransactionListResponse{
		Transactions: transactions,
		Totals: TransactionTotalsResponse{
			IncomeTotal:  output.Totals.IncomeTotal.String(),
			ExpenseTotal: output.Totals.ExpenseTotal.String(),
			NetTotal:     output.Totals.NetTotal.String(),
		},
	}
}
