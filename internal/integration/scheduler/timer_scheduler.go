// Package scheduler drives due-detection for recurring transactions: one
// single-shot timer per active template plus a periodic sweep.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler processes a template whose timer fired.
type Handler func(ctx context.Context, id uuid.UUID)

// TimerScheduler keeps at most one pending timer per template.
// It implements adapter.TimerScheduler.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[uuid.UUID]armedTimer
	seq     uint64
	handler Handler
	timeout time.Duration
	stopped bool
	wg      sync.WaitGroup
}

type armedTimer struct {
	timer *time.Timer
	seq   uint64
}

// NewTimerScheduler creates a scheduler. Each firing runs handler with a
// context bounded by timeout; a zero timeout means no deadline.
func NewTimerScheduler(timeout time.Duration) *TimerScheduler {
	return &TimerScheduler{
		timers:  make(map[uuid.UUID]armedTimer),
		timeout: timeout,
	}
}

// SetHandler sets the function invoked when a timer fires. It must be called
// before the first timer is armed.
func (s *TimerScheduler) SetHandler(handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// ScheduleAfter arms a timer for id, replacing any pending one.
// A delay <= 0 fires immediately on a separate goroutine.
func (s *TimerScheduler) ScheduleAfter(id uuid.UUID, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if existing, ok := s.timers[id]; ok {
		existing.timer.Stop()
	}

	s.seq++
	seq := s.seq
	s.timers[id] = armedTimer{
		timer: time.AfterFunc(delay, func() { s.fire(id, seq) }),
		seq:   seq,
	}

	slog.Debug("Recurring timer armed", "recurring_id", id, "delay", delay)
}

// Cancel disarms the pending timer for id, if any.
func (s *TimerScheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed, ok := s.timers[id]; ok {
		armed.timer.Stop()
		delete(s.timers, id)
		slog.Debug("Recurring timer cancelled", "recurring_id", id)
	}
}

// Pending returns the number of armed timers.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// IsArmed reports whether id has a pending timer.
func (s *TimerScheduler) IsArmed(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Stop disarms every timer and waits for in-flight handlers to return.
// Timers armed after Stop are ignored.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, armed := range s.timers {
		armed.timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("Recurring timer scheduler stopped")
}

func (s *TimerScheduler) fire(id uuid.UUID, seq uint64) {
	s.mu.Lock()
	// A replaced or cancelled timer may still fire.
	if current, ok := s.timers[id]; !ok || current.seq != seq || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	handler := s.handler
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	if handler == nil {
		slog.Warn("Recurring timer fired without handler", "recurring_id", id)
		return
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	handler(ctx, id)
}
