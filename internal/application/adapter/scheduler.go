// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Use cases never call time.Now directly for
// scheduling decisions so tests can control it.
type Clock interface {
	Now() time.Time
}

// TimerScheduler arms single-shot, per-template timers.
// Arming a template that already has a pending timer replaces it.
type TimerScheduler interface {
	// ScheduleAfter arms a timer that fires after delay. A delay <= 0 fires immediately.
	ScheduleAfter(id uuid.UUID, delay time.Duration)

	// Cancel disarms the pending timer for id, if any.
	Cancel(id uuid.UUID)
}

// Locker hands out short-lived, cross-process exclusive locks.
type Locker interface {
	// TryLock attempts to take key for ttl without blocking. When acquired is
	// true the caller must call release once done.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
