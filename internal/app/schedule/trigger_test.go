package schedule

import (
	"testing"
	"time"
)

func TestNextTriggerThirtyMinuteScenario(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 10, 12, 0, 0, loc)
	interval := 30 * time.Minute

	first := NextTrigger(now, interval)
	if want := time.Date(2024, 3, 15, 10, 30, 0, 0, loc); !first.Equal(want) {
		t.Fatalf("first trigger: expected %s, got %s", want, first)
	}

	second := NextTrigger(first, interval)
	if want := time.Date(2024, 3, 15, 11, 0, 0, 0, loc); !second.Equal(want) {
		t.Fatalf("second trigger: expected %s, got %s", want, second)
	}

	third := NextTrigger(second, interval)
	if want := time.Date(2024, 3, 15, 11, 30, 0, 0, loc); !third.Equal(want) {
		t.Fatalf("third trigger: expected %s, got %s", want, third)
	}
}

// Every divisor of 3600 must produce exactly the multiples of the interval
// within any one-hour window.
func TestNextTriggerCoversHourForAllDivisors(t *testing.T) {
	hourStart := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	for _, seconds := range []int{1, 2, 5, 10, 60, 300, 600, 900, 1800, 3600} {
		interval := time.Duration(seconds) * time.Second
		count := 3600 / seconds

		cursor := hourStart.Add(-time.Nanosecond)
		for k := 0; k < count; k++ {
			want := hourStart.Add(time.Duration(k) * interval)
			got := NextTrigger(cursor, interval)
			if !got.Equal(want) {
				t.Fatalf("interval %ds, k=%d: expected %s, got %s", seconds, k, want, got)
			}
			cursor = got
		}

		next := NextTrigger(cursor, interval)
		if want := hourStart.Add(time.Hour); !next.Equal(want) {
			t.Fatalf("interval %ds: expected next hour boundary %s, got %s", seconds, want, next)
		}
	}
}

func TestNextTriggerIsStrictlyFuture(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got := NextTrigger(now, 30*time.Minute)
	if !got.After(now) {
		t.Fatalf("trigger %s is not after now %s", got, now)
	}
	if want := time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNextTriggerMidIntervalRounding(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 12, 37, 500_000_000, time.UTC)
	got := NextTrigger(now, 10*time.Minute)
	if want := time.Date(2024, 3, 15, 10, 20, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
