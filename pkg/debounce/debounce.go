// Package debounce delays a call until its trigger has been quiet for a
// configured window.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer schedules at most one pending call. Every Trigger cancels the
// pending call and starts a new window, so only the most recent trigger ever
// runs. Callbacks run on the clock's timer goroutine.
type Debouncer struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	wait    time.Duration
	timer   clockwork.Timer
	gen     uint64
	stopped bool
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock swaps the clock used to schedule calls.
func WithClock(clock clockwork.Clock) Option {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// New creates a Debouncer with the given quiet window.
func New(wait time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		clock: clockwork.NewRealClock(),
		wait:  wait,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Wait reports the quiet window.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Trigger cancels any pending call and schedules fn after the quiet window.
// It is a no-op once the Debouncer is stopped.
func (d *Debouncer) Trigger(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.fire(gen, fn)
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and disables further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64, fn func()) {
	d.mu.Lock()
	// A timer that lost the race with Stop or a newer Trigger is stale.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	fn()
}
