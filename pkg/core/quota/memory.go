package quota

import (
	"context"
	"sync"
)

// MemoryTracker is an in-process Tracker with the same contract as the
// Postgres one. It backs tests and database-less dry runs; it cannot
// coordinate the budget across processes.
type MemoryTracker struct {
	max  int
	mu   sync.Mutex
	used map[string]int
}

// NewMemoryTracker creates a tracker with the given daily ceiling.
func NewMemoryTracker(max int) *MemoryTracker {
	return &MemoryTracker{max: max, used: make(map[string]int)}
}

// Reserve implements Tracker.
func (t *MemoryTracker) Reserve(ctx context.Context, day string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used[day] >= t.max {
		return ErrQuotaExceeded
	}
	t.used[day]++
	return nil
}

// Release implements Tracker. Clamped at zero.
func (t *MemoryTracker) Release(ctx context.Context, day string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used[day] > 0 {
		t.used[day]--
	}
	return nil
}

// Used reports the reserved count for a day.
func (t *MemoryTracker) Used(day string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used[day]
}
