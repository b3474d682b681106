package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

// Dispatching is the slice of Dispatcher the scheduler needs.
type Dispatching interface {
	Dispatch(ctx context.Context, trigger model.TriggerKind, optionalSymbol string) error
}

// Scheduler fires one scheduled invocation per day at a fixed UTC wall-clock
// time. A scheduled trigger never carries a symbol, so it can only ever
// dispatch the update operation.
type Scheduler struct {
	dispatcher Dispatching
	runAt      string // "HH:MM", UTC
	now        func() time.Time
}

// NewScheduler creates a Scheduler firing daily at runAt ("HH:MM" UTC).
func NewScheduler(dispatcher Dispatching, runAt string) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		runAt:      runAt,
		now:        time.Now,
	}
}

// Start blocks until the context is canceled, firing the update operation
// once per day. Failed runs are logged; the loop continues.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		next, err := NextFireTime(s.now(), s.runAt)
		if err != nil {
			return err
		}
		slog.Info("next scheduled run", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("scheduler stopped")
			return nil
		case <-timer.C:
			if err := s.dispatcher.Dispatch(ctx, model.TriggerScheduled, ""); err != nil {
				slog.Error("scheduled run failed", "error", err)
			}
		}
	}
}

// NextFireTime returns the next instant strictly after now whose UTC
// wall-clock time equals runAt ("HH:MM"): today at runAt if that is still
// ahead, otherwise tomorrow.
func NextFireTime(now time.Time, runAt string) (time.Time, error) {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid run-at time %q: %w", runAt, err)
	}

	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}
