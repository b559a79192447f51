package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Frequency
		wantErr bool
	}{
		{name: "upper case", value: "MONTHLY", want: FrequencyMonthly},
		{name: "lower case", value: "weekly", want: FrequencyWeekly},
		{name: "surrounding spaces", value: "  daily ", want: FrequencyDaily},
		{name: "yearly", value: "Yearly", want: FrequencyYearly},
		{name: "unknown", value: "HOURLY", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrequency(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domainerror.ErrInvalidFrequency))

				var recErr *domainerror.RecurringError
				require.True(t, errors.As(err, &recErr))
				assert.Equal(t, domainerror.ErrCodeInvalidFrequency, recErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	date := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		from      time.Time
		frequency Frequency
		want      time.Time
	}{
		{name: "daily", from: date(2025, time.January, 15), frequency: FrequencyDaily, want: date(2025, time.January, 16)},
		{name: "daily across year end", from: date(2024, time.December, 31), frequency: FrequencyDaily, want: date(2025, time.January, 1)},
		{name: "weekly", from: date(2025, time.January, 14), frequency: FrequencyWeekly, want: date(2025, time.January, 21)},
		{name: "monthly", from: date(2025, time.January, 10), frequency: FrequencyMonthly, want: date(2025, time.February, 10)},
		{name: "monthly overflow", from: date(2025, time.January, 31), frequency: FrequencyMonthly, want: date(2025, time.March, 3)},
		{name: "monthly overflow in leap year", from: date(2024, time.January, 31), frequency: FrequencyMonthly, want: date(2024, time.March, 2)},
		{name: "yearly", from: date(2025, time.March, 1), frequency: FrequencyYearly, want: date(2026, time.March, 1)},
		{name: "yearly from leap day", from: date(2024, time.February, 29), frequency: FrequencyYearly, want: date(2025, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.from, tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOccurrence_NormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC-3", -3*60*60)
	from := time.Date(2025, time.January, 31, 22, 0, 0, 0, zone)

	got, err := NextOccurrence(from, FrequencyDaily)

	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, time.February, 2, 1, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_IsStrictlyIncreasing(t *testing.T) {
	for _, frequency := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly} {
		t.Run(string(frequency), func(t *testing.T) {
			current := time.Date(2024, time.January, 29, 8, 30, 0, 0, time.UTC)
			for i := 0; i < 60; i++ {
				next, err := NextOccurrence(current, frequency)
				require.NoError(t, err)
				require.True(t, next.After(current), "step %d: %s is not after %s", i, next, current)
				current = next
			}
		})
	}
}

func TestNextOccurrence_InvalidFrequency(t *testing.T) {
	_, err := NextOccurrence(time.Now(), Frequency("FORTNIGHTLY"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrInvalidFrequency))
}
