// Package sched is the cancelable delayed-execution collaborator used
// to pace bot actions. It is a thin seam over coder/quartz so tests
// drive time with a mock clock instead of sleeping.
package sched

import (
	"time"

	"github.com/coder/quartz"
)

// Scheduler schedules callbacks on a quartz clock.
type Scheduler struct {
	clock quartz.Clock
}

// New creates a scheduler. A nil clock means the real one.
func New(clock quartz.Clock) *Scheduler {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Scheduler{clock: clock}
}

// Pending is a scheduled callback that has not fired yet.
type Pending struct {
	timer *quartz.Timer
}

// After runs fn once d has elapsed, unless canceled first.
func (s *Scheduler) After(d time.Duration, fn func()) *Pending {
	return &Pending{timer: s.clock.AfterFunc(d, fn)}
}

// Cancel stops the pending callback. It returns false when the
// callback already fired or was already canceled; the caller must
// then guard against a stale execution itself (the session does this
// with a generation counter).
func (p *Pending) Cancel() bool {
	if p == nil || p.timer == nil {
		return false
	}
	return p.timer.Stop()
}
