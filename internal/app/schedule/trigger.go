// Package schedule computes wall-clock-aligned trigger instants and runs the
// blocking acquisition loop around them.
package schedule

import "time"

// NextTrigger returns the smallest instant strictly after now that is a
// whole multiple of interval past the top of the hour. With an interval that
// divides one hour evenly, triggers land on :00:00 of every hour and on
// every exact multiple of the interval within it, regardless of when the
// process started.
//
// Pure function: the sleeping mechanism lives in Scheduler so this is
// directly testable without real time passing.
func NextTrigger(now time.Time, interval time.Duration) time.Time {
	hourStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	elapsed := now.Sub(hourStart)

	k := elapsed / interval
	if elapsed%interval != 0 {
		k++
	}
	next := hourStart.Add(k * interval)
	if !next.After(now) {
		next = next.Add(interval)
	}
	return next
}
