package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// State of the scheduler loop.
type State int32

const (
	Idle State = iota
	Waiting
	Firing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Firing:
		return "firing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleFunc runs one acquisition cycle. Failures are handled inside the
// pipeline; the scheduler never inspects them.
type CycleFunc func(ctx context.Context)

// Scheduler sleeps until the next aligned trigger, fires the cycle
// synchronously, and recomputes the next trigger from the current wall clock
// so a slow cycle cannot drift the cadence. A stop request is honored only
// at the Waiting→Firing and Firing→Waiting boundaries; an in-flight cycle
// always completes.
type Scheduler struct {
	interval time.Duration
	fire     CycleFunc
	obs      ports.Observability
	state    atomic.Int32

	// test seams; default to the real clock
	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) bool
}

func NewScheduler(interval time.Duration, fire CycleFunc, obs ports.Observability) *Scheduler {
	return &Scheduler{
		interval: interval,
		fire:     fire,
		obs:      obs,
		now:      time.Now,
		wait:     waitFor,
	}
}

// State reports the loop's current state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Run blocks until ctx is cancelled. It always returns nil: only an explicit
// stop terminates the loop, never a cycle failure.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.state.Store(int32(Stopped))

	for {
		next := NextTrigger(s.now(), s.interval)
		s.state.Store(int32(Waiting))
		s.obs.SetGauge("daq_next_trigger_seconds", next.Sub(s.now()).Seconds())
		s.obs.LogInfo("scheduler_waiting", ports.Field{Key: "next_trigger", Value: next.Format(time.RFC3339)})

		if !s.wait(ctx, next.Sub(s.now())) {
			return nil
		}

		s.state.Store(int32(Firing))
		s.fire(ctx)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

func waitFor(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
