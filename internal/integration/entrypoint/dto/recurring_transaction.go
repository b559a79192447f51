package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/usecase/recurring"
)

// CreateRecurringTransactionRequest represents the request body for recurring transaction creation.
type CreateRecurringTransactionRequest struct {
	AccountID                string          `json:"account_id" binding:"required,uuid"`
	CategoryID               string          `json:"category_id" binding:"required,uuid"`
	Description              string          `json:"description" binding:"required,min=1,max=255"`
	Amount                   decimal.Decimal `json:"amount"`
	Type                     string          `json:"type" binding:"required,oneof=expense income"`
	PaymentMethod            string          `json:"payment_method" binding:"required"`
	Frequency                string          `json:"frequency" binding:"required"`
	StartDate                string          `json:"start_date" binding:"required"`
	EndDate                  *string         `json:"end_date,omitempty"`
	Location                 string          `json:"location,omitempty"`
	Notes                    string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Receipt                  string          `json:"receipt,omitempty"`
	CreateInitialTransaction bool            `json:"create_initial_transaction,omitempty"`
}

// UpdateRecurringTransactionRequest represents the request body for recurring transaction update.
type UpdateRecurringTransactionRequest struct {
	AccountID     *string          `json:"account_id,omitempty" binding:"omitempty,uuid"`
	CategoryID    *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Description   *string          `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Type          *string          `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Frequency     *string          `json:"frequency,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
	ClearEndDate  bool             `json:"clear_end_date,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Notes         *string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Receipt       *string          `json:"receipt,omitempty"`
}

// RecurringTransactionResponse represents a single recurring transaction in API responses.
type RecurringTransactionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountID     string    `json:"account_id"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Description   string    `json:"description"`
	Amount        string    `json:"amount"`
	Type          string    `json:"type"`
	PaymentMethod string    `json:"payment_method"`
	Location      string    `json:"location,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Receipt       string    `json:"receipt,omitempty"`
	Frequency     string    `json:"frequency"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date,omitempty"`
	NextDueDate   string    `json:"next_due_date"`
	LastProcessed *string   `json:"last_processed,omitempty"`
	IsActive      bool      `json:"is_active"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateRecurringTransactionResponse represents the response for recurring transaction creation.
type CreateRecurringTransactionResponse struct {
	RecurringTransactionResponse
	InitialTransactionID *string `json:"initial_transaction_id,omitempty"`
}

// RecurringTransactionListResponse represents the response for listing recurring transactions.
type RecurringTransactionListResponse struct {
	RecurringTransactions []RecurringTransactionResponse `json:"recurring_transactions"`
}

// ProcessRecurringTransactionResponse represents the result of processing one template.
type ProcessRecurringTransactionResponse struct {
	Outcome       string  `json:"outcome"`
	TransactionID *string `json:"transaction_id,omitempty"`
	NextDueDate   *string `json:"next_due_date,omitempty"`
}

// ProcessDueResponse represents the summary of a sweep.
type ProcessDueResponse struct {
	Found     int `json:"found"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// ToRecurringTransactionResponse converts a RecurringTransactionOutput to its response DTO.
func ToRecurringTransactionResponse(r *recurring.RecurringTransactionOutput) RecurringTransactionResponse {
	return RecurringTransactionResponse{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		AccountID:     r.AccountID.String(),
		CategoryID:    r.CategoryID.String(),
		CategoryName:  r.CategoryName,
		Description:   r.Description,
		Amount:        r.Amount.String(),
		Type:          string(r.Type),
		PaymentMethod: string(r.PaymentMethod),
		Location:      r.Location,
		Notes:         r.Notes,
		Receipt:       r.Receipt,
		Frequency:     string(r.Frequency),
		StartDate:     formatTime(r.StartDate),
		EndDate:       formatTimePtr(r.EndDate),
		NextDueDate:   formatTime(r.NextDueDate),
		LastProcessed: formatTimePtr(r.LastProcessed),
		IsActive:      r.IsActive,
		State:         string(r.State),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToCreateRecurringTransactionResponse converts a creation output to its response DTO.
func ToCreateRecurringTransactionResponse(output *recurring.CreateRecurringTransactionOutput) CreateRecurringTransactionResponse {
	response := CreateRecurringTransactionResponse{
		RecurringTransactionResponse: ToRecurringTransactionResponse(output.RecurringTransaction),
	}
	if output.InitialTransactionID != nil {
		id := output.InitialTransactionID.String()
		response.InitialTransactionID = &id
	}
	return response
}

// ToRecurringTransactionListResponse converts a list output to its response DTO.
func ToRecurringTransactionListResponse(outputs []*recurring.RecurringTransactionOutput) RecurringTransactionListResponse {
	items := make([]RecurringTransactionResponse, len(outputs))
	for i, output := range outputs {
		items[i] = ToRecurringTransactionResponse(output)
	}
	return RecurringTransactionListResponse{
		RecurringTransactions: items,
	}
}

// ToProcessRecurringTransactionResponse converts a processing output to its response DTO.
func ToProcessRecurringTransactionResponse(output *recurring.ProcessRecurringTransactionOutput) ProcessRecurringTransactionResponse {
	response := ProcessRecurringTransactionResponse{
		Outcome:     string(output.Outcome),
		NextDueDate: formatTimePtr(output.NextDueDate),
	}
	if output.TransactionID != nil {
		id := output.TransactionID.String()
		response.TransactionID = &id
	}
	return response
}
