// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}

// TransactionOutput represents a single transaction in the output.
type TransactionOutput struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	CategoryName  string
	Description   string
	Amount        decimal.Decimal
	Type          entity.TransactionType
	PaymentMethod entity.PaymentMethod
	Date          time.Time
	Location      string
	Notes         string
	Receipt       string
	IsRecurring   bool
	RecurringID   *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalsOutput represents aggregated totals in the output.
type TotalsOutput struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Totals       TotalsOutput
}

// ListTransactionsUseCase handles listing the transactions of an account.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute lists transactions newest first, with income and expense totals.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	transactions, err := uc.transactionRepo.FindByAccount(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	output := &ListTransactionsOutput{
		Transactions: make([]*TransactionOutput, len(transactions)),
		Totals: TotalsOutput{
			IncomeTotal:  decimal.Zero,
			ExpenseTotal: decimal.Zero,
		},
	}

	for i, t := range transactions {
		output.Transactions[i] = toTransactionOutput(t)
		if t.IsExpense() {
			output.Totals.ExpenseTotal = output.Totals.ExpenseTotal.Add(t.Amount)
		} else {
			output.Totals.IncomeTotal = output.Totals.IncomeTotal.Add(t.Amount)
		}
	}
	output.Totals.NetTotal = output.Totals.IncomeTotal.Sub(output.Totals.ExpenseTotal)

	return output, nil
}

func toTransactionOutput(t *entity.Transaction) *TransactionOutput {
	return &TransactionOutput{
		ID:            t.ID,
		UserID:        t.UserID,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          t.Type,
		PaymentMethod: t.PaymentMethod,
		Date:          t.Date,
		Location:      t.Location,
		Notes:         t.Notes,
		Receipt:       t.Receipt,
		IsRecurring:   t.IsRecurring,
		RecurringID:   t.RecurringID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
