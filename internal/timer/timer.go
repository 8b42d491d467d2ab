// Package timer provides countdown timers driven by simulated game time.
//
// Timers never read the wall clock. The owner advances them from its tick, so a
// paused game simply stops calling Advance and every timer freezes in place.
package timer

import "time"

// Timer is a one-shot or auto-resetting countdown.
type Timer struct {
	period    time.Duration
	remaining time.Duration
	running   bool
	repeat    bool
}

// NewOneShot creates a stopped timer that fires once per Start.
func NewOneShot() *Timer {
	return &Timer{}
}

// NewRepeating creates a stopped timer that reloads its period after firing.
func NewRepeating(period time.Duration) *Timer {
	return &Timer{period: period, repeat: true}
}

// Start (re)arms the timer with d. A repeating timer keeps d as its new period.
func (t *Timer) Start(d time.Duration) {
	t.period = d
	t.remaining = d
	t.running = true
}

// Restart re-arms the timer with its current period.
func (t *Timer) Restart() {
	t.Start(t.period)
}

// Stop disarms the timer. Stopping a stopped timer is a no-op.
func (t *Timer) Stop() {
	t.running = false
	t.remaining = 0
}

// Running reports whether the timer is armed.
func (t *Timer) Running() bool {
	return t.running
}

// Remaining returns the time left until the timer fires, or 0 when stopped.
func (t *Timer) Remaining() time.Duration {
	if !t.running {
		return 0
	}
	return t.remaining
}

// Period returns the configured duration.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Advance moves the timer forward by dt and reports whether it fired.
// A one-shot timer stops after firing; a repeating one reloads, carrying over
// any overshoot so long-run cadence does not drift.
func (t *Timer) Advance(dt time.Duration) bool {
	if !t.running || dt <= 0 {
		return false
	}

	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}

	if t.repeat && t.period > 0 {
		t.remaining += t.period
		if t.remaining <= 0 {
			t.remaining = t.period
		}
		return true
	}

	t.running = false
	t.remaining = 0
	return true
}
