// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"strings"
	"time"

	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

// Frequency represents the cadence of a recurring transaction.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// IsValid reports whether the frequency is one of the supported cadences.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ParseFrequency converts a raw value into a Frequency. Matching is case-insensitive.
func ParseFrequency(value string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(value)))
	if !f.IsValid() {
		return "", invalidFrequencyError(value)
	}
	return f, nil
}

// NextOccurrence returns the instant one cadence period after from.
//
// Arithmetic is done in UTC with time.AddDate, so month and year steps
// normalize overflowing days: Jan 31 + 1 month is Mar 3 (Mar 2 in a leap
// year) and Feb 29 + 1 year is Mar 1. The function advances exactly one
// period; callers loop when several periods have elapsed.
func NextOccurrence(from time.Time, frequency Frequency) (time.Time, error) {
	t := from.UTC()

	switch frequency {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1), nil
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7), nil
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0), nil
	case FrequencyYearly:
		return t.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, invalidFrequencyError(string(frequency))
	}
}

func invalidFrequencyError(value string) error {
	return domainerror.NewRecurringError(
		domainerror.ErrCodeInvalidFrequency,
		fmt.Sprintf("invalid frequency: %q", value),
		domainerror.ErrInvalidFrequency,
	)
}
