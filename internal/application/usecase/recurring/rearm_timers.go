package recurring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/recurring/internal/application/adapter"
)

// RearmTimersUseCase arms one timer per active template from its persisted cursor.
// It runs at startup, since timers do not survive a restart.
type RearmTimersUseCase struct {
	recurringRepo adapter.RecurringTransactionRepository
	scheduler     adapter.TimerScheduler
	clock         adapter.Clock
}

// NewRearmTimersUseCase creates a new RearmTimersUseCase instance.
func NewRearmTimersUseCase(
	recurringRepo adapter.RecurringTransactionRepository,
	scheduler adapter.TimerScheduler,
	clock adapter.Clock,
) *RearmTimersUseCase {
	return &RearmTimersUseCase{
		recurringRepo: recurringRepo,
		scheduler:     scheduler,
		clock:         clock,
	}
}

// Execute arms the timers and returns how many were armed.
func (uc *RearmTimersUseCase) Execute(ctx context.Context) (int, error) {
	templates, err := uc.recurringRepo.FindAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load active recurring transactions: %w", err)
	}

	now := uc.clock.Now().UTC()
	for _, r := range templates {
		uc.scheduler.ScheduleAfter(r.ID, r.DelayUntilDue(now))
	}

	slog.Info("Recurring timers re-armed", "count", len(templates))
	return len(templates), nil
}
