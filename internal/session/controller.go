// Package session implements the controller that owns the lifetime of
// a window-manipulation session: which window is targeted, which screen
// resolution happens on, and which action is currently selected. All
// methods must run on the dispatch loop.
package session

import (
	"log/slog"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/platform"
)

// Applier executes a resolved action against a window. Implemented by
// the apply engine.
type Applier interface {
	Apply(id platform.WindowID, a *action.Action, screen platform.Display, record bool) error
}

// StashGate lets the stash subsystem claim actions aimed at windows it
// already manages, bypassing normal resolution.
type StashGate interface {
	Claim(id platform.WindowID, a *action.Action) bool
}

// Controller is the session state machine hub.
type Controller struct {
	backend platform.Backend
	applier Applier
	stash   StashGate
	logger  *slog.Logger
	cfg     *config.Config

	active       bool
	window       platform.WindowID
	screen       platform.Display
	current      *action.Action
	parentCycle  *action.Action
	startPointer platform.Point
	applied      bool
	screenHops   int

	// Remembered position per cycle signature, used when restart-on-
	// reentry is off.
	cycleIndex map[uint64]int

	usage   int
	onUsage func(count int)
}

// NewController wires the session hub. stash may be nil when the stash
// subsystem is disabled.
func NewController(backend platform.Backend, applier Applier, stash StashGate, cfg *config.Config, logger *slog.Logger) *Controller {
	return &Controller{
		backend:    backend,
		applier:    applier,
		stash:      stash,
		logger:     logger,
		cfg:        cfg,
		cycleIndex: make(map[uint64]int),
	}
}

// SetConfig swaps the configuration after a reload.
func (c *Controller) SetConfig(cfg *config.Config) {
	c.cfg = cfg
}

// SetUsage seeds the persisted usage counter and its persistence hook.
func (c *Controller) SetUsage(count int, onUsage func(int)) {
	c.usage = count
	c.onUsage = onUsage
}

// Active reports whether a session is open.
func (c *Controller) Active() bool {
	return c.active
}

// Target returns the session's window and the action currently shown.
func (c *Controller) Target() (platform.WindowID, *action.Action) {
	return c.window, c.current
}

// Open starts a session for the active window. A second open while
// already active only updates the displayed action; third-party key
// remappers are known to deliver duplicate opens.
func (c *Controller) Open(starting *action.Action) {
	if c.active {
		if starting != nil {
			c.ChangeAction(starting, true, false)
		}
		return
	}

	id, err := c.backend.ActiveWindow()
	if err != nil {
		c.logger.Debug("no active window, session not opened", "error", err)
		return
	}
	info, err := c.backend.WindowInfo(id)
	if err != nil {
		c.logger.Debug("active window lookup failed", "error", err)
		return
	}
	if c.cfg.IsExcluded(info.AppID) {
		c.logger.Debug("app excluded, session not opened", "app", info.AppID)
		return
	}
	if c.cfg.IgnoreFullscreen {
		if fs, err := c.backend.IsFullscreen(id); err == nil && fs {
			return
		}
	}
	screen, err := c.backend.ActiveDisplay()
	if err != nil {
		c.logger.Warn("active display lookup failed", "error", err)
		return
	}
	pointer, err := c.backend.PointerPosition()
	if err != nil {
		c.logger.Debug("pointer position unavailable", "error", err)
	}

	c.active = true
	c.window = id
	c.screen = screen
	c.current = nil
	c.parentCycle = nil
	c.startPointer = pointer
	c.applied = false
	c.screenHops = 0
	c.logger.Debug("session opened", "window", id, "screen", screen.Name)

	if starting != nil {
		c.ChangeAction(starting, true, false)
	}
}

// ChangeAction selects a new action for the open session.
// canAdvanceCycle distinguishes direct key/click input from hover
// re-evaluation, which may select but never advance a cycle. shiftHeld
// is the raw modifier fact used by reverse-cycle eligibility.
func (c *Controller) ChangeAction(a *action.Action, canAdvanceCycle, shiftHeld bool) {
	if !c.active || a == nil {
		return
	}

	// A direct keybind or click that doesn't re-enter the remembered
	// cycle abandons it; hover re-evaluation never does.
	if canAdvanceCycle && a.Direction != action.Cycle && !c.inParentCycle(a) {
		c.parentCycle = nil
	}

	if c.stash != nil && c.stash.Claim(c.window, a) {
		c.current = a
		return
	}

	fromCycle := false
	act := a
	if act.Direction == action.Cycle {
		member := c.cycleMember(act, canAdvanceCycle, shiftHeld)
		if member == nil {
			return
		}
		c.parentCycle = act
		act = member
		fromCycle = true
	}

	if act.IsScreenSwitch() {
		c.switchScreen(act, fromCycle)
		return
	}

	c.screenHops = 0
	c.current = act
	if !c.cfg.HideUntilDirection {
		c.applyCurrent()
	}
}

// Close ends the session. A forced close (Escape, reserved shortcut)
// discards everything; a normal close commits the selected action and
// bumps the usage counter.
func (c *Controller) Close(force bool) {
	if !c.active {
		return
	}
	current, applied := c.current, c.applied
	c.active = false
	c.current = nil
	c.parentCycle = nil
	c.applied = false
	c.screenHops = 0

	if force || current == nil || current.Direction == action.NoAction {
		c.logger.Debug("session closed", "forced", force)
		return
	}
	if !applied {
		// Visuals were deferred by hide-until-direction; commit now.
		if err := c.applier.Apply(c.window, current, c.screen, true); err != nil {
			c.logger.Warn("final apply failed", "action", current.Direction, "error", err)
		}
	}
	c.usage++
	if c.onUsage != nil {
		c.onUsage(c.usage)
	}
	c.logger.Debug("session committed", "action", current.Direction, "usage", c.usage)
}

// PointerMoved feeds the radial selector during an open session.
func (c *Controller) PointerMoved(p platform.Point) {
	if !c.active || !c.cfg.Radial.Enabled {
		return
	}
	dir := radialDirection(c.startPointer, p, float64(c.cfg.Radial.DeadZone))
	if dir == action.NoAction {
		return
	}
	if c.current != nil && c.current.Direction == dir {
		return
	}

	// Prefer an existing cycle member over a synthesized action so a
	// later confirm click stays inside the cycle.
	if c.parentCycle != nil {
		for i := range c.parentCycle.Cycle {
			if c.parentCycle.Cycle[i].Direction == dir {
				c.ChangeAction(&c.parentCycle.Cycle[i], false, false)
				return
			}
		}
	}
	a := action.New(dir)
	c.ChangeAction(&a, false, false)
}

// ConfirmClick re-invokes the remembered parent cycle without advancing
// it, confirming whatever member the pointer hovered onto.
func (c *Controller) ConfirmClick() {
	if !c.active || c.parentCycle == nil {
		return
	}
	c.ChangeAction(c.parentCycle, false, false)
}

// inParentCycle reports whether a matches one of the remembered parent
// cycle's members.
func (c *Controller) inParentCycle(a *action.Action) bool {
	if c.parentCycle == nil {
		return false
	}
	for i := range c.parentCycle.Cycle {
		if c.parentCycle.Cycle[i].SameManipulation(a) {
			return true
		}
	}
	return false
}

func (c *Controller) applyCurrent() {
	if err := c.applier.Apply(c.window, c.current, c.screen, true); err != nil {
		c.logger.Warn("apply failed", "action", c.current.Direction, "error", err)
		return
	}
	c.applied = true
}

// cycleMember resolves which member of a cycle the session should show
// next.
func (c *Controller) cycleMember(cycle *action.Action, canAdvance, shiftHeld bool) *action.Action {
	members := cycle.Cycle
	if len(members) == 0 {
		return nil
	}
	sig := cycle.Signature()

	idx := -1
	if c.current != nil {
		for i := range members {
			if members[i].SameManipulation(c.current) {
				idx = i
				break
			}
		}
	}

	if !canAdvance {
		// Hover and confirm-click select, never advance.
		if idx >= 0 {
			return &members[idx]
		}
		if last, ok := c.cycleIndex[sig]; ok && last < len(members) {
			return &members[last]
		}
		return &members[0]
	}

	if idx == -1 {
		if c.cfg.Cycle.RestartOnReentry {
			c.cycleIndex[sig] = 0
			return &members[0]
		}
		if last, ok := c.cycleIndex[sig]; ok {
			idx = last
		} else {
			c.cycleIndex[sig] = 0
			return &members[0]
		}
	}

	reverse := shiftHeld &&
		c.cfg.Cycle.ReverseOnShift &&
		!cycle.Keybind.Contains(action.Shift) &&
		!c.cfg.TriggerKeys.Contains(action.Shift)

	n := len(members)
	var next int
	if reverse {
		next = (idx - 1 + n) % n
	} else {
		next = (idx + 1) % n
	}
	c.cycleIndex[sig] = next
	return &members[next]
}

// switchScreen retargets the session to an adjacent display. When the
// switch came out of a cycle the parent cycle is re-invoked on the new
// screen; the hop counter stops cycles made only of screen switches
// from bouncing forever.
func (c *Controller) switchScreen(act *action.Action, fromCycle bool) {
	displays, err := c.backend.Displays()
	if err != nil {
		c.logger.Warn("display enumeration failed", "error", err)
		return
	}
	if c.screenHops >= len(displays) {
		c.logger.Debug("screen-hop guard tripped", "hops", c.screenHops)
		return
	}
	target, ok := adjacentDisplay(act.Direction, displays, c.screen)
	if !ok {
		return
	}
	c.screenHops++
	c.screen = target

	if fromCycle && c.parentCycle != nil {
		c.ChangeAction(c.parentCycle, false, false)
		return
	}

	c.current = act
	if !c.cfg.HideUntilDirection {
		c.applyCurrent()
	}
}
