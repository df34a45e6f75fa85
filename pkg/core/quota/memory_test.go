package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestReserveNeverExceedsCeiling(t *testing.T) {
	const max = 50
	tracker := NewMemoryTracker(max)
	day := Today(time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tracker.Reserve(context.Background(), day); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != max {
		t.Errorf("granted %d reservations, want exactly %d", granted, max)
	}
	if used := tracker.Used(day); used != max {
		t.Errorf("used = %d, want %d", used, max)
	}
}

func TestReserveAtCeilingReturnsQuotaExceeded(t *testing.T) {
	tracker := NewMemoryTracker(1)
	day := Today(time.UTC)

	if err := tracker.Reserve(context.Background(), day); err != nil {
		t.Fatalf("first Reserve: %v", err)
	}
	err := tracker.Reserve(context.Background(), day)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("second Reserve = %v, want ErrQuotaExceeded", err)
	}
}

func TestReleaseFreesASlot(t *testing.T) {
	tracker := NewMemoryTracker(1)
	day := Today(time.UTC)
	ctx := context.Background()

	if err := tracker.Reserve(ctx, day); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := tracker.Release(ctx, day); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := tracker.Reserve(ctx, day); err != nil {
		t.Fatalf("Reserve after Release = %v, want nil", err)
	}
	if used := tracker.Used(day); used != 1 {
		t.Errorf("used = %d, want 1", used)
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	tracker := NewMemoryTracker(5)
	day := Today(time.UTC)
	ctx := context.Background()

	if err := tracker.Release(ctx, day); err != nil {
		t.Fatalf("Release on empty day: %v", err)
	}
	if used := tracker.Used(day); used != 0 {
		t.Errorf("used = %d after release on empty day, want 0", used)
	}
}

func TestDaysAreIndependent(t *testing.T) {
	tracker := NewMemoryTracker(1)
	ctx := context.Background()

	if err := tracker.Reserve(ctx, "2026-08-29"); err != nil {
		t.Fatalf("Reserve day one: %v", err)
	}
	if err := tracker.Reserve(ctx, "2026-08-30"); err != nil {
		t.Fatalf("Reserve day two = %v, want nil (fresh day)", err)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	got := Today(seoul)
	want := time.Now().In(seoul).Format(DayFormat)
	if got != want {
		t.Errorf("Today(seoul) = %q, want %q", got, want)
	}
}
