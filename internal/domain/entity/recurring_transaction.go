// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringState is the scheduling state derived from a template's cursor and flags.
type RecurringState string

const (
	RecurringStateActivePending RecurringState = "active_pending"
	RecurringStateActiveDue     RecurringState = "active_due"
	RecurringStatePaused        RecurringState = "paused"
	RecurringStateExpired       RecurringState = "expired"
)

// RecurringTransaction is a template that periodically materializes transactions.
type RecurringTransaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.UUID
	CategoryName  string // Snapshot, refreshed only when the category is changed on the template
	Description   string
	Amount        decimal.Decimal
	Type          TransactionType
	PaymentMethod PaymentMethod
	Location      string
	Notes         string
	Receipt       string
	Frequency     Frequency
	StartDate     time.Time
	EndDate       *time.Time // Inclusive upper bound
	NextDueDate   time.Time
	LastProcessed *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecurringTransaction creates an active template whose cursor is one period after startDate.
func NewRecurringTransaction(
	userID uuid.UUID,
	accountID uuid.UUID,
	category *Category,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	paymentMethod PaymentMethod,
	frequency Frequency,
	startDate time.Time,
	endDate *time.Time,
) (*RecurringTransaction, error) {
	nextDueDate, err := NextOccurrence(startDate, frequency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var end *time.Time
	if endDate != nil {
		e := endDate.UTC()
		end = &e
	}

	return &RecurringTransaction{
		ID:            uuid.New(),
		UserID:        userID,
		AccountID:     accountID,
		CategoryID:    category.ID,
		CategoryName:  category.Name,
		Description:   description,
		Amount:        amount,
		Type:          transactionType,
		PaymentMethod: paymentMethod,
		Frequency:     frequency,
		StartDate:     startDate.UTC(),
		EndDate:       end,
		NextDueDate:   nextDueDate,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// State derives the scheduling state at now.
func (r *RecurringTransaction) State(now time.Time) RecurringState {
	if !r.IsActive {
		if r.EndDate != nil && now.After(*r.EndDate) {
			return RecurringStateExpired
		}
		return RecurringStatePaused
	}
	if r.IsDue(now) {
		return RecurringStateActiveDue
	}
	return RecurringStateActivePending
}

// IsDue reports whether the template is active and its cursor has been reached.
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	return r.IsActive && !r.NextDueDate.After(now)
}

// HasExpired reports whether now is past the inclusive end date.
func (r *RecurringTransaction) HasExpired(now time.Time) bool {
	return r.EndDate != nil && now.After(*r.EndDate)
}

// DelayUntilDue returns how long until the cursor is reached, clamped at zero.
func (r *RecurringTransaction) DelayUntilDue(now time.Time) time.Duration {
	delay := r.NextDueDate.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

// Pause deactivates the template. The cursor is left frozen.
func (r *RecurringTransaction) Pause() {
	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()
}

// Expire deactivates the template because its end date has passed.
func (r *RecurringTransaction) Expire() {
	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()
}

// Resume reactivates the template and restarts the clock from now.
// Missed occurrences are not replayed.
func (r *RecurringTransaction) Resume(now time.Time) error {
	nextDueDate, err := NextOccurrence(now, r.Frequency)
	if err != nil {
		return err
	}
	r.IsActive = true
	r.NextDueDate = nextDueDate
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeFrequency switches the cadence and recomputes the cursor from its current value.
func (r *RecurringTransaction) ChangeFrequency(frequency Frequency) error {
	nextDueDate, err := NextOccurrence(r.NextDueDate, frequency)
	if err != nil {
		return err
	}
	r.Frequency = frequency
	r.NextDueDate = nextDueDate
	return nil
}

// ChangeCategory points the template at another category and refreshes the name snapshot.
func (r *RecurringTransaction) ChangeCategory(category *Category) {
	r.CategoryID = category.ID
	r.CategoryName = category.Name
}

// Materialize builds the concrete transaction for an occurrence dated at.
// Scheduled occurrences are dated at the processing time, which may lag the due time.
func (r *RecurringTransaction) Materialize(at time.Time) *Transaction {
	created := time.Now().UTC()
	recurringID := r.ID

	return &Transaction{
		ID:            uuid.New(),
		UserID:        r.UserID,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		CategoryName:  r.CategoryName,
		Description:   r.Description,
		Amount:        r.Amount,
		Type:          r.Type,
		PaymentMethod: r.PaymentMethod,
		Date:          at.UTC(),
		Location:      r.Location,
		Notes:         r.Notes,
		Receipt:       r.Receipt,
		IsRecurring:   true,
		RecurringID:   &recurringID,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// Advance moves the cursor past now after a successful materialization and records lastProcessed.
//
// The cursor steps one period at a time from its previous value. When several
// periods were missed (downtime, lost timers) it keeps stepping until it lands
// strictly after now: missed periods are skipped, not back-filled.
func (r *RecurringTransaction) Advance(now time.Time) error {
	next := r.NextDueDate
	for !next.After(now) {
		n, err := NextOccurrence(next, r.Frequency)
		if err != nil {
			return err
		}
		next = n
	}

	processed := now.UTC()
	r.NextDueDate = next
	r.LastProcessed = &processed
	r.UpdatedAt = time.Now().UTC()
	return nil
}
