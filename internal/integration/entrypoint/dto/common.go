// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"fmt"
	"time"
)

// dateLayout is the calendar-date form accepted alongside RFC 3339.
const dateLayout = "2006-01-02"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date into UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
	}
	return t.UTC(), nil
}

// formatTime renders an instant as RFC 3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr renders an optional instant.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
