package mock

import (
	"sync"
	"time"
)

// Time is a controllable clock. It stands still until it is set or advanced.
type Time struct {
	mu      sync.RWMutex
	current time.Time
}

func NewTime(current time.Time) *Time {
	return &Time{
		current: current.UTC(),
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = currentTime.UTC()
}

func (t *Time) Advance(d time.Duration) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = t.current.Add(d)
	return t.current
}

func (t *Time) AddDate(years, months, days int) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = t.current.AddDate(years, months, days)
	return t.current
}

func (t *Time) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}
