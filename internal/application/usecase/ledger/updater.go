// Package ledger keeps budget aggregates in step with expense transactions.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// Entry is a signed change to the spent totals of one (user, account, category, month) scope.
type Entry struct {
	UserID     uuid.UUID
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	Month      string
	Amount     decimal.Decimal
}

// EntryFor returns the entry that adds (sign=1) or removes (sign=-1) a transaction.
func EntryFor(transaction *entity.Transaction, sign int64) Entry {
	return Entry{
		UserID:     transaction.UserID,
		AccountID:  transaction.AccountID,
		CategoryID: transaction.CategoryID,
		Month:      transaction.Month(),
		Amount:     transaction.Amount.Mul(decimal.NewFromInt(sign)),
	}
}

// CreateDeltas returns the entries for a newly created transaction.
// Income does not count against budgets and yields nothing.
func CreateDeltas(transaction *entity.Transaction) []Entry {
	if !transaction.IsExpense() {
		return nil
	}
	return []Entry{EntryFor(transaction, 1)}
}

// DeleteDeltas returns the entries that reverse a deleted transaction.
func DeleteDeltas(transaction *entity.Transaction) []Entry {
	if !transaction.IsExpense() {
		return nil
	}
	return []Entry{EntryFor(transaction, -1)}
}

// EditDeltas returns the entries that move the ledger from before to after.
//
// When the transaction stays an expense in the same scope only the amount
// difference is applied. Any change of category, account, month or type
// reverses the old contribution and applies the new one.
func EditDeltas(before, after *entity.Transaction) []Entry {
	if before.IsExpense() && after.IsExpense() && sameScope(before, after) {
		diff := after.Amount.Sub(before.Amount)
		if diff.IsZero() {
			return nil
		}
		entry := EntryFor(after, 1)
		entry.Amount = diff
		return []Entry{entry}
	}

	entries := DeleteDeltas(before)
	return append(entries, CreateDeltas(after)...)
}

func sameScope(a, b *entity.Transaction) bool {
	return a.UserID == b.UserID &&
		a.AccountID == b.AccountID &&
		a.CategoryID == b.CategoryID &&
		a.Month() == b.Month()
}

// Updater applies ledger entries through the repositories of the caller's unit of work.
type Updater struct{}

// NewUpdater creates a new Updater instance.
func NewUpdater() *Updater {
	return &Updater{}
}

// Apply applies every entry in order. It stops at the first failure so the
// surrounding unit of work can roll back.
func (u *Updater) Apply(ctx context.Context, budgets adapter.BudgetRepository, entries ...Entry) error {
	for _, entry := range entries {
		if err := u.ApplyDelta(ctx, budgets, entry); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta adds entry.Amount to the matching budget category's spent and to
// the budget's total spent.
//
// A scope without a budget is a no-op. A budget without an aggregate for the
// category still has its total spent adjusted.
func (u *Updater) ApplyDelta(ctx context.Context, budgets adapter.BudgetRepository, entry Entry) error {
	if entry.Amount.IsZero() {
		return nil
	}

	budget, err := budgets.FindBudgetByScope(ctx, entry.UserID, entry.AccountID, entry.Month)
	if err != nil {
		return fmt.Errorf("failed to find budget: %w", err)
	}
	if budget == nil {
		slog.Debug("No budget covers ledger entry",
			"userID", entry.UserID,
			"accountID", entry.AccountID,
			"month", entry.Month,
		)
		return nil
	}

	category, err := budgets.FindCategoryInBudget(ctx, budget.ID, entry.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to find budget category: %w", err)
	}
	if category != nil {
		if err := budgets.AddToCategorySpent(ctx, category.ID, entry.Amount); err != nil {
			return fmt.Errorf("failed to update budget category spent: %w", err)
		}
	}

	if err := budgets.AddToBudgetTotals(ctx, budget.ID, decimal.Zero, entry.Amount); err != nil {
		return fmt.Errorf("failed to update budget total spent: %w", err)
	}

	return nil
}
