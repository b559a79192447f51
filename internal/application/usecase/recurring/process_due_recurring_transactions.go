package recurring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/recurring/internal/application/adapter"
)

// DefaultSweepBatchSize is the number of due templates fetched per sweep query.
const DefaultSweepBatchSize = 100

// ProcessDueRecurringTransactionsOutput summarizes one sweep.
type ProcessDueRecurringTransactionsOutput struct {
	Found     int
	Processed int
	Failed    int
}

// ProcessDueRecurringTransactionsUseCase finds every template whose cursor has
// been reached and runs it through the processing use case.
type ProcessDueRecurringTransactionsUseCase struct {
	recurringRepo adapter.RecurringTransactionRepository
	processor     *ProcessRecurringTransactionUseCase
	clock         adapter.Clock
	batchSize     int
}

// NewProcessDueRecurringTransactionsUseCase creates a new ProcessDueRecurringTransactionsUseCase instance.
func NewProcessDueRecurringTransactionsUseCase(
	recurringRepo adapter.RecurringTransactionRepository,
	processor *ProcessRecurringTransactionUseCase,
	clock adapter.Clock,
	batchSize int,
) *ProcessDueRecurringTransactionsUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &ProcessDueRecurringTransactionsUseCase{
		recurringRepo: recurringRepo,
		processor:     processor,
		clock:         clock,
		batchSize:     batchSize,
	}
}

// Execute runs one sweep. Templates are fetched in batches until a batch comes
// back short or nothing in a batch could be moved forward.
func (uc *ProcessDueRecurringTransactionsUseCase) Execute(ctx context.Context) (*ProcessDueRecurringTransactionsOutput, error) {
	output := &ProcessDueRecurringTransactionsOutput{}

	for {
		if err := ctx.Err(); err != nil {
			return output, err
		}

		due, err := uc.recurringRepo.FindDue(ctx, uc.clock.Now().UTC(), uc.batchSize)
		if err != nil {
			return output, fmt.Errorf("failed to find due recurring transactions: %w", err)
		}
		output.Found += len(due)

		progressed := 0
		for _, r := range due {
			result, err := uc.processor.Execute(ctx, ProcessRecurringTransactionInput{RecurringID: r.ID})
			if err != nil {
				output.Failed++
				slog.Error("Sweep failed to process recurring transaction",
					"recurringID", r.ID,
					"error", err,
				)
				continue
			}
			switch result.Outcome {
			case ProcessOutcomeMaterialized:
				output.Processed++
				progressed++
			case ProcessOutcomeExpired, ProcessOutcomeConflict, ProcessOutcomeNotFound, ProcessOutcomeInactive:
				progressed++
			}
		}

		if len(due) < uc.batchSize || progressed == 0 {
			break
		}
	}

	if output.Found > 0 {
		slog.Info("Recurring sweep completed",
			"found", output.Found,
			"processed", output.Processed,
			"failed", output.Failed,
		)
	}

	return output, nil
}
