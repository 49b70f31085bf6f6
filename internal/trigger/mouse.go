package trigger

import (
	"time"

	"github.com/1broseidon/slate/internal/dispatch"
)

// Mouse button numbers as reported by the X server.
const (
	ButtonLeft   = 1
	ButtonMiddle = 2
	ButtonRight  = 3
)

// MiddleClickObserver opens a session on middle-button press, either
// immediately or after a configurable hold delay, and closes it again
// on middle-button release. Only gestures it opened are ended; sessions
// opened by the keyboard are left alone.
type MiddleClickObserver struct {
	session Session
	loop    *dispatch.Loop
	enabled bool
	delay   time.Duration
	pending *dispatch.Task
	opened  bool
}

// NewMiddleClickObserver creates an observer. A zero delay opens the
// session on press without waiting.
func NewMiddleClickObserver(session Session, loop *dispatch.Loop, enabled bool, delay time.Duration) *MiddleClickObserver {
	return &MiddleClickObserver{
		session: session,
		loop:    loop,
		enabled: enabled,
		delay:   delay,
	}
}

// Reconfigure applies new settings after a config reload.
func (o *MiddleClickObserver) Reconfigure(enabled bool, delay time.Duration) {
	o.enabled = enabled
	o.delay = delay
	if !enabled {
		o.cancelPending()
		o.opened = false
	}
}

// HandleButton consumes one pointer-button transition. Other buttons
// never reach the session through here; in particular a left-button
// confirm click during a keyboard session must not end it.
func (o *MiddleClickObserver) HandleButton(button int, press bool) {
	if !o.enabled || button != ButtonMiddle {
		return
	}

	if press {
		if o.delay <= 0 {
			o.session.Open(nil)
			o.opened = true
			return
		}
		o.cancelPending()
		o.pending = o.loop.After(o.delay, func() {
			o.pending = nil
			o.session.Open(nil)
			o.opened = true
		})
		return
	}

	// Middle-button-up ends the gesture, but only one this observer
	// started.
	o.cancelPending()
	if o.opened && o.session.Active() {
		o.session.Close(false)
	}
	o.opened = false
}

func (o *MiddleClickObserver) cancelPending() {
	if o.pending != nil {
		o.pending.Cancel()
		o.pending = nil
	}
}
