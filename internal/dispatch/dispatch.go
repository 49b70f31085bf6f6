// Package dispatch provides the single cooperative execution context
// that owns all session and stash state. Event-source callbacks run on
// their own goroutines and must hand off here before touching shared
// state; that hand-off is the sole synchronization discipline, so the
// state machines themselves never take locks.
package dispatch

import (
	"context"
	"sync"
	"time"
)

// Loop is the core dispatch loop.
type Loop struct {
	tasks chan func()

	mu      sync.Mutex
	stopped bool
}

// NewLoop creates a dispatch loop with a bounded hand-off queue.
func NewLoop() *Loop {
	return &Loop{tasks: make(chan func(), 256)}
}

// Run executes posted tasks until the context is cancelled. It must be
// called exactly once; the goroutine calling Run is the core thread.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.mu.Unlock()
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post hands fn off to the core thread without waiting. Callbacks from
// OS event sources must stay cheap, so this never blocks the caller:
// when the queue is full the task is dropped, which is acceptable for
// the high-frequency pointer events that dominate the queue.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	select {
	case l.tasks <- fn:
	default:
	}
}

// PostWait runs fn on the core thread and blocks until it returns.
// Used by shutdown paths that need a synchronous hand-off.
func (l *Loop) PostWait(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		// The loop is gone; don't deadlock shutdown.
	}
}

// Task is a cancellable delayed function scheduled on the loop.
type Task struct {
	timer     *time.Timer
	mu        sync.Mutex
	cancelled bool
}

// After schedules fn to run on the core thread after d. The returned
// task can be cancelled until it fires.
func (l *Loop) After(d time.Duration, fn func()) *Task {
	t := &Task{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			t.mu.Lock()
			cancelled := t.cancelled
			t.mu.Unlock()
			if !cancelled {
				fn()
			}
		})
	})
	return t
}

// Cancel prevents the task from running if it has not fired yet.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.timer.Stop()
}
