package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/application/usecase/recurring"
)

// SweepRunner runs one sweep over every overdue template.
type SweepRunner interface {
	Execute(ctx context.Context) (*recurring.ProcessDueRecurringTransactionsOutput, error)
}

// Sweeper periodically scans for overdue templates, recovering anything the
// per-template timers missed.
type Sweeper struct {
	runner       SweepRunner
	clock        adapter.Clock
	interval     time.Duration
	dailyHourUTC int
	mu           sync.Mutex
}

// SweeperConfig holds configuration for the sweeper.
type SweeperConfig struct {
	// Interval between regular sweeps.
	Interval time.Duration
	// DailyHourUTC is the hour of the daily backstop sweep. Negative disables it.
	DailyHourUTC int
}

// DefaultSweeperConfig returns the default sweeper configuration.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:     60 * time.Minute,
		DailyHourUTC: 0,
	}
}

// NewSweeper creates a new sweeper.
func NewSweeper(runner SweepRunner, clock adapter.Clock, config SweeperConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.DailyHourUTC > 23 {
		config.DailyHourUTC = 0
	}
	return &Sweeper{
		runner:       runner,
		clock:        clock,
		interval:     config.Interval,
		dailyHourUTC: config.DailyHourUTC,
	}
}

// Start begins the sweep loop. It blocks until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("Recurring sweeper started",
		"interval", s.interval,
		"daily_hour_utc", s.dailyHourUTC,
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var daily <-chan time.Time
	var dailyTimer *time.Timer
	if s.dailyHourUTC >= 0 {
		dailyTimer = time.NewTimer(s.untilDaily())
		defer dailyTimer.Stop()
		daily = dailyTimer.C
	}

	// Sweep immediately on start, then on ticker
	s.sweep(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Recurring sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx, "interval")
		case <-daily:
			s.sweep(ctx, "daily")
			dailyTimer.Reset(s.untilDaily())
		}
	}
}

// RunNow runs a sweep immediately and returns its summary.
func (s *Sweeper) RunNow(ctx context.Context) (*recurring.ProcessDueRecurringTransactionsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runner.Execute(ctx)
}

func (s *Sweeper) sweep(ctx context.Context, trigger string) {
	output, err := s.RunNow(ctx)
	if err != nil {
		slog.Error("Recurring sweep failed", "trigger", trigger, "error", err)
		return
	}
	slog.Debug("Recurring sweep finished",
		"trigger", trigger,
		"found", output.Found,
		"processed", output.Processed,
		"failed", output.Failed,
	)
}

func (s *Sweeper) untilDaily() time.Duration {
	now := s.clock.Now().UTC()
	return NextDailyRun(now, s.dailyHourUTC).Sub(now)
}

// NextDailyRun returns the first instant strictly after now at hour:00 UTC.
func NextDailyRun(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
