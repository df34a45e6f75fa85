// Package quota enforces the daily outbound-call budget for the DART
// registry. The budget is a cross-process resource: every run against the
// same database shares one counter per calendar day, so the reserve step
// must be a single atomic conditional update, never a read-then-write.
package quota

import (
	"context"
	"errors"
	"time"
)

// ErrQuotaExceeded signals that the daily call ceiling has been reached.
// No further fetches should be attempted until the next day.
var ErrQuotaExceeded = errors.New("daily API call quota exceeded")

// Tracker reserves and releases slots of the daily call budget.
//
// Reserve atomically checks used_calls < max and increments; Release undoes
// a reservation after a failed call. Release clamps at zero: a release
// without a matching reserve (possible across processes) must not free
// quota that was never held.
type Tracker interface {
	Reserve(ctx context.Context, day string) error
	Release(ctx context.Context, day string) error
}

// DayFormat is the calendar-day key layout used by all trackers.
const DayFormat = "2006-01-02"

// Today returns the current day key in the given location. The quota day
// rolls at midnight KST in production.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DayFormat)
}
