// Package trigger turns raw key and pointer-button events into session
// lifecycle decisions: open, change action, close. Observers here are
// plain state machines; the daemon feeds them from the X event
// goroutine via the dispatch loop, so all methods run on the core
// thread and take no locks.
package trigger

import (
	"time"

	"github.com/1broseidon/slate/internal/action"
)

// releaseBurstWindow coalesces near-simultaneous key-ups when a user
// lets go of a multi-key chord, so the displayed direction doesn't flap
// on the way out.
const releaseBurstWindow = 100 * time.Millisecond

// Session is the controller surface the observers drive. shiftHeld is
// the raw fact that Shift was down when the action resolved; the
// controller combines it with its own reverse-cycle eligibility rules.
type Session interface {
	Active() bool
	Open(starting *action.Action)
	ChangeAction(a *action.Action, canAdvanceCycle, shiftHeld bool)
	Close(force bool)
}

// KeyEvent is a single key transition from the event source. Repeat
// classification happens inside the observer; the source only reports
// raw transitions.
type KeyEvent struct {
	Key   action.Key
	Press bool
}

// KeybindObserver tracks the pressed-key set and opens/advances/closes
// sessions when the configured trigger chord is involved.
type KeybindObserver struct {
	session  Session
	cache    *action.Cache
	trigger  action.KeySet
	reserved []action.KeySet

	// Keys on this list double as standalone system keys; they are only
	// intercepted once the pointer has moved during the session.
	deferUntilMove action.KeySet

	pressed      action.KeySet
	keyReleased  map[action.Key]time.Time
	pointerMoved bool
	lastRelease  time.Time
	now          func() time.Time
}

// NewKeybindObserver creates an observer in the idle state. reserved
// lists chords that belong to the system: matching one force-closes the
// session and lets the event through.
func NewKeybindObserver(session Session, cache *action.Cache, trigger action.KeySet, reserved []action.KeySet) *KeybindObserver {
	return &KeybindObserver{
		session:        session,
		cache:          cache,
		trigger:        trigger,
		reserved:       reserved,
		deferUntilMove: action.NewKeySet(),
		pressed:        action.NewKeySet(),
		keyReleased:    make(map[action.Key]time.Time),
		now:            time.Now,
	}
}

// SetDeferredKeys installs the allow-list of keys intercepted only
// after pointer movement.
func (o *KeybindObserver) SetDeferredKeys(keys action.KeySet) {
	o.deferUntilMove = keys.Clone()
}

// Rebind swaps the cache and trigger chord after a config reload.
func (o *KeybindObserver) Rebind(cache *action.Cache, trigger action.KeySet) {
	o.cache = cache
	o.trigger = trigger
}

// PointerMoved records that the pointer moved since the session opened.
func (o *KeybindObserver) PointerMoved() {
	o.pointerMoved = true
}

// HandleKey consumes one key event and reports whether it should be
// swallowed rather than forwarded to the focused client.
//
// Repeats are classified here rather than trusted from the event
// source: a press of an already-held key is a repeat, and so is a press
// landing within the release-burst window of that same key's release,
// which is what X autorepeat looks like without detectable autorepeat.
func (o *KeybindObserver) HandleKey(ev KeyEvent) bool {
	repeat := false
	if ev.Press {
		repeat = o.pressed.Contains(ev.Key) || o.withinReleaseBurst(ev.Key)
		o.pressed = o.pressed.Add(ev.Key)
		delete(o.keyReleased, ev.Key)
	} else {
		o.pressed = o.pressed.Remove(ev.Key)
		o.keyReleased[ev.Key] = o.now()
	}

	if o.session.Active() {
		return o.handleActive(ev, repeat)
	}
	return o.handleIdle(ev)
}

func (o *KeybindObserver) withinReleaseBurst(k action.Key) bool {
	rel, ok := o.keyReleased[k]
	return ok && o.now().Sub(rel) < releaseBurstWindow
}

func (o *KeybindObserver) handleActive(ev KeyEvent, repeat bool) bool {
	if ev.Key == action.Escape && ev.Press {
		o.session.Close(true)
		return true
	}

	// A reserved system chord wins: close first so the shortcut still
	// lands where the system expects it.
	for _, chord := range o.reserved {
		if o.pressed.ContainsAll(chord) {
			o.session.Close(true)
			return false
		}
	}

	if ev.Press {
		if o.deferUntilMove.Contains(ev.Key) && !o.pointerMoved {
			return false
		}
		a := o.cache.Lookup(o.pressed.Subtract(o.trigger))
		if a == nil {
			// Unmapped keys still belong to the chord while the trigger
			// is held.
			return o.pressed.ContainsAll(o.trigger)
		}
		if repeat && !a.IsRelative() {
			// One-shot layouts fire once; only frame-relative actions
			// re-fire on key repeat.
			return true
		}
		o.session.ChangeAction(a, true, o.pressed.Contains(action.Shift))
		return true
	}

	// Key-up paths.
	if !o.pressed.ContainsAll(o.trigger) {
		o.session.Close(false)
		return false
	}

	now := o.now()
	burst := !o.lastRelease.IsZero() && now.Sub(o.lastRelease) < releaseBurstWindow
	o.lastRelease = now
	if burst {
		return true
	}
	if a := o.cache.Lookup(o.pressed.Subtract(o.trigger)); a != nil {
		o.session.ChangeAction(a, true, o.pressed.Contains(action.Shift))
	}
	return true
}

func (o *KeybindObserver) handleIdle(ev KeyEvent) bool {
	if !ev.Press || !o.pressed.ContainsAll(o.trigger) {
		return false
	}

	o.pointerMoved = false
	o.lastRelease = time.Time{}
	o.session.Open(o.cache.Lookup(o.pressed.Subtract(o.trigger)))
	return true
}
