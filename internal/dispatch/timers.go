package dispatch

import "time"

// Debouncer coalesces bursts of events into a single evaluation. A new
// call always supersedes (cancels) the pending one.
type Debouncer struct {
	loop    *Loop
	delay   time.Duration
	pending *Task
}

// NewDebouncer creates a debouncer scheduling on the given loop.
func NewDebouncer(loop *Loop, delay time.Duration) *Debouncer {
	return &Debouncer{loop: loop, delay: delay}
}

// Call schedules fn after the debounce delay, cancelling any pending
// call. Must be invoked from the core thread.
func (d *Debouncer) Call(fn func()) {
	if d.pending != nil {
		d.pending.Cancel()
	}
	d.pending = d.loop.After(d.delay, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	if d.pending != nil {
		d.pending.Cancel()
		d.pending = nil
	}
}

// Throttler enforces a minimum gap between consecutive events.
type Throttler struct {
	gap  time.Duration
	last time.Time
	now  func() time.Time
}

// NewThrottler creates a throttler with the given minimum gap.
func NewThrottler(gap time.Duration) *Throttler {
	return &Throttler{gap: gap, now: time.Now}
}

// Allow reports whether enough time has passed since the last allowed
// event, recording the event when it has.
func (t *Throttler) Allow() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.gap {
		return false
	}
	t.last = now
	return true
}
