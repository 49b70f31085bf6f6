package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/dispatch"
)

type fakeSession struct {
	active  bool
	opens   int
	changes []*action.Action
	closes  []bool
}

func (f *fakeSession) Active() bool { return f.active }

func (f *fakeSession) Open(starting *action.Action) {
	f.active = true
	f.opens++
	if starting != nil {
		f.changes = append(f.changes, starting)
	}
}

func (f *fakeSession) ChangeAction(a *action.Action, canAdvanceCycle, shiftHeld bool) {
	f.changes = append(f.changes, a)
}

func (f *fakeSession) Close(force bool) {
	f.active = false
	f.closes = append(f.closes, force)
}

func testCache(t *testing.T) *action.Cache {
	t.Helper()
	left := action.New(action.LeftHalf)
	left.Keybind = action.NewKeySet("left")
	larger := action.New(action.Larger)
	larger.Keybind = action.NewKeySet("equal")
	return action.NewCache([]action.Action{left, larger}, true)
}

func newObserver(t *testing.T) (*KeybindObserver, *fakeSession) {
	t.Helper()
	sess := &fakeSession{}
	obs := NewKeybindObserver(sess, testCache(t), action.NewKeySet("super"), nil)
	return obs, sess
}

func TestTriggerChordOpensSession(t *testing.T) {
	obs, sess := newObserver(t)

	if obs.HandleKey(KeyEvent{Key: "left", Press: true}) {
		t.Fatal("non-trigger key while idle must be forwarded")
	}
	obs.HandleKey(KeyEvent{Key: "left", Press: false})

	if !obs.HandleKey(KeyEvent{Key: "super", Press: true}) {
		t.Fatal("trigger chord must be swallowed")
	}
	if sess.opens != 1 {
		t.Fatalf("opens = %d, want 1", sess.opens)
	}

	obs.HandleKey(KeyEvent{Key: "left", Press: true})
	if len(sess.changes) != 1 || sess.changes[0].Direction != action.LeftHalf {
		t.Fatalf("expected left-half change, got %+v", sess.changes)
	}
}

func TestEscapeForceClosesAndIsSwallowed(t *testing.T) {
	obs, sess := newObserver(t)
	obs.HandleKey(KeyEvent{Key: "super", Press: true})

	if !obs.HandleKey(KeyEvent{Key: "escape", Press: true}) {
		t.Fatal("escape must be swallowed during a session")
	}
	if len(sess.closes) != 1 || !sess.closes[0] {
		t.Fatalf("expected one forced close, got %v", sess.closes)
	}
}

func TestTriggerReleaseClosesNonForced(t *testing.T) {
	obs, sess := newObserver(t)
	obs.HandleKey(KeyEvent{Key: "super", Press: true})

	obs.HandleKey(KeyEvent{Key: "super", Press: false})
	if len(sess.closes) != 1 || sess.closes[0] {
		t.Fatalf("expected one non-forced close, got %v", sess.closes)
	}
}

func TestReleaseBurstCoalesced(t *testing.T) {
	obs, sess := newObserver(t)
	base := time.Unix(1000, 0)
	obs.now = func() time.Time { return base }

	obs.HandleKey(KeyEvent{Key: "super", Press: true})
	obs.HandleKey(KeyEvent{Key: "left", Press: true})  // left-half
	obs.HandleKey(KeyEvent{Key: "equal", Press: true}) // larger

	// First key-up re-resolves to the still-held direction; the second,
	// 10ms later, is part of the same release burst and must not.
	obs.HandleKey(KeyEvent{Key: "equal", Press: false})
	if got := countDirection(sess.changes, action.LeftHalf); got != 2 {
		t.Fatalf("first key-up: left-half resolved %d times, want 2", got)
	}
	base = base.Add(10 * time.Millisecond)
	obs.HandleKey(KeyEvent{Key: "left", Press: false})
	if got := countDirection(sess.changes, action.LeftHalf); got != 2 {
		t.Fatalf("burst key-up re-resolved: left-half count %d, want 2", got)
	}

	// Past the burst window the chord can be rebuilt, and a later
	// key-up re-resolves again.
	base = base.Add(150 * time.Millisecond)
	obs.HandleKey(KeyEvent{Key: "left", Press: true})
	obs.HandleKey(KeyEvent{Key: "equal", Press: true})
	base = base.Add(200 * time.Millisecond)
	obs.HandleKey(KeyEvent{Key: "equal", Press: false})
	if got := countDirection(sess.changes, action.LeftHalf); got != 4 {
		t.Fatalf("post-burst key-up: left-half resolved %d times, want 4", got)
	}
}

func TestKeyRepeatOnlyRefiresRelativeActions(t *testing.T) {
	obs, sess := newObserver(t)
	obs.HandleKey(KeyEvent{Key: "super", Press: true})

	// A press of an already-held key is a repeat.
	obs.HandleKey(KeyEvent{Key: "left", Press: true})
	obs.HandleKey(KeyEvent{Key: "left", Press: true})
	if got := countDirection(sess.changes, action.LeftHalf); got != 1 {
		t.Fatalf("one-shot layout fired %d times on repeat, want 1", got)
	}
	obs.HandleKey(KeyEvent{Key: "left", Press: false})

	obs.HandleKey(KeyEvent{Key: "equal", Press: true})
	obs.HandleKey(KeyEvent{Key: "equal", Press: true})
	obs.HandleKey(KeyEvent{Key: "equal", Press: true})
	if got := countDirection(sess.changes, action.Larger); got != 3 {
		t.Fatalf("relative action fired %d times with repeats, want 3", got)
	}
}

func TestAutorepeatReleasePressPairsAreRepeats(t *testing.T) {
	cycle := action.New(action.Cycle)
	cycle.Keybind = action.NewKeySet("up")
	cycle.Cycle = []action.Action{
		action.New(action.TopHalf),
		action.New(action.Maximize),
	}
	sess := &fakeSession{}
	obs := NewKeybindObserver(sess, action.NewCache([]action.Action{cycle}, false), action.NewKeySet("super"), nil)
	base := time.Unix(1000, 0)
	obs.now = func() time.Time { return base }

	obs.HandleKey(KeyEvent{Key: "super", Press: true})
	obs.HandleKey(KeyEvent{Key: "up", Press: true})
	if len(sess.changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(sess.changes))
	}

	// Without detectable autorepeat X delivers the held key as phantom
	// release/press pairs every few tens of milliseconds; none of them
	// may advance the cycle.
	for i := 0; i < 5; i++ {
		base = base.Add(30 * time.Millisecond)
		obs.HandleKey(KeyEvent{Key: "up", Press: false})
		obs.HandleKey(KeyEvent{Key: "up", Press: true})
	}
	if len(sess.changes) != 1 {
		t.Fatalf("autorepeat advanced a one-shot cycle: changes = %d, want 1", len(sess.changes))
	}

	// A deliberate re-press after the key settled advances normally.
	base = base.Add(30 * time.Millisecond)
	obs.HandleKey(KeyEvent{Key: "up", Press: false})
	base = base.Add(200 * time.Millisecond)
	obs.HandleKey(KeyEvent{Key: "up", Press: true})
	if len(sess.changes) != 2 {
		t.Fatalf("deliberate re-press: changes = %d, want 2", len(sess.changes))
	}
}

func TestReservedChordForceClosesAndForwards(t *testing.T) {
	sess := &fakeSession{}
	reserved := []action.KeySet{action.NewKeySet("super", "l")}
	obs := NewKeybindObserver(sess, testCache(t), action.NewKeySet("super"), reserved)

	obs.HandleKey(KeyEvent{Key: "super", Press: true})
	if obs.HandleKey(KeyEvent{Key: "l", Press: true}) {
		t.Fatal("reserved chord must be forwarded")
	}
	if len(sess.closes) != 1 || !sess.closes[0] {
		t.Fatalf("expected forced close before forwarding, got %v", sess.closes)
	}
}

func TestDeferredKeyIgnoredUntilPointerMoves(t *testing.T) {
	obs, sess := newObserver(t)
	obs.SetDeferredKeys(action.NewKeySet("left"))

	obs.HandleKey(KeyEvent{Key: "super", Press: true})
	if obs.HandleKey(KeyEvent{Key: "left", Press: true}) {
		t.Fatal("deferred key must pass through before pointer movement")
	}
	if countDirection(sess.changes, action.LeftHalf) != 0 {
		t.Fatal("deferred key must not change the action yet")
	}
	obs.HandleKey(KeyEvent{Key: "left", Press: false})

	obs.PointerMoved()
	if !obs.HandleKey(KeyEvent{Key: "left", Press: true}) {
		t.Fatal("deferred key must be intercepted after pointer movement")
	}
	if countDirection(sess.changes, action.LeftHalf) != 1 {
		t.Fatal("deferred key must resolve after pointer movement")
	}
}

func TestMiddleClickDelayedOpenCancelledByRelease(t *testing.T) {
	loop := dispatch.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	sess := &fakeSession{}
	obs := NewMiddleClickObserver(sess, loop, true, 50*time.Millisecond)

	loop.PostWait(func() { obs.HandleButton(ButtonMiddle, true) })
	loop.PostWait(func() { obs.HandleButton(ButtonMiddle, false) })

	time.Sleep(150 * time.Millisecond)
	if sess.opens != 0 {
		t.Fatalf("cancelled delayed open still fired, opens = %d", sess.opens)
	}
}

func TestMiddleClickImmediateOpenAndClose(t *testing.T) {
	loop := dispatch.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	sess := &fakeSession{}
	obs := NewMiddleClickObserver(sess, loop, true, 0)

	obs.HandleButton(ButtonMiddle, true)
	if sess.opens != 1 {
		t.Fatalf("opens = %d, want 1", sess.opens)
	}
	obs.HandleButton(ButtonMiddle, false)
	if len(sess.closes) != 1 || sess.closes[0] {
		t.Fatalf("expected non-forced close on middle-up, got %v", sess.closes)
	}
}

func TestMiddleObserverLeavesForeignSessionsAlone(t *testing.T) {
	loop := dispatch.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Session opened by the keyboard, not by this observer.
	sess := &fakeSession{active: true}
	obs := NewMiddleClickObserver(sess, loop, true, 0)

	// A confirm-click left-button release during the session.
	obs.HandleButton(ButtonLeft, false)
	// A stray middle-up from a gesture the observer never started.
	obs.HandleButton(ButtonMiddle, false)

	if len(sess.closes) != 0 {
		t.Fatalf("observer closed a session it did not open: %v", sess.closes)
	}
	if !sess.active {
		t.Fatal("keyboard session must stay active")
	}
}

func countDirection(actions []*action.Action, dir action.Direction) int {
	n := 0
	for _, a := range actions {
		if a != nil && a.Direction == dir {
			n++
		}
	}
	return n
}
