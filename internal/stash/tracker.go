package stash

import (
	"github.com/1broseidon/slate/internal/dispatch"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/platform"
)

// PointerMoved feeds the reveal/hide machinery. Bursts of pointer
// events collapse into a single evaluation via the 50ms debounce.
func (m *Manager) PointerMoved(p platform.Point) {
	if len(m.entries) == 0 || m.debounce == nil {
		return
	}
	m.debounce.Call(func() { m.evaluatePointer(p) })
}

// evaluatePointer runs one reveal/hide decision for the pointer
// position.
func (m *Manager) evaluatePointer(p platform.Point) {
	x, y := float64(p.X), float64(p.Y)

	if m.revealed != 0 {
		e, ok := m.entries[m.revealed]
		if !ok {
			m.revealed = 0
		} else if m.shouldHide(e, x, y) {
			if m.throttler(e.Window).Allow() {
				m.hide(e)
			}
			return
		} else {
			// Pointer still near the revealed window; nothing to do.
			return
		}
	}

	if e := m.revealCandidate(x, y); e != nil {
		if m.throttler(e.Window).Allow() {
			m.reveal(e)
		}
	}
}

// shouldHide reports whether the pointer left both the revealed rect
// (expanded by the leave tolerance) and the hidden strip.
func (m *Manager) shouldHide(e *Entry, x, y float64) bool {
	leave := e.Revealed.Expanded(float64(m.cfg.Stash.LeaveTolerance))
	return !leave.Contains(x, y) && !e.Hidden.Contains(x, y)
}

// revealCandidate picks the hidden entry under the pointer. When
// several hidden strips overlap, the frontmost window in current
// z-order wins.
func (m *Manager) revealCandidate(x, y float64) *Entry {
	var hits []*Entry
	for _, e := range m.entries {
		if e.State == StateHidden && e.Hidden.Contains(x, y) {
			hits = append(hits, e)
		}
	}
	switch len(hits) {
	case 0:
		return nil
	case 1:
		return hits[0]
	}

	stacked, err := m.backend.ListWindowsStacked()
	if err != nil {
		return hits[0]
	}
	// Bottom-to-top order: the last hit wins.
	var best *Entry
	for _, w := range stacked {
		for _, e := range hits {
			if e.Window == w.ID {
				best = e
			}
		}
	}
	if best == nil {
		return hits[0]
	}
	return best
}

func (m *Manager) reveal(e *Entry) {
	m.setRevealed(e.Window)
	e.State = StateRevealed
	if err := m.backend.MoveResize(e.Window, e.Revealed.ToPlatform()); err != nil {
		m.logger.Warn("failed to reveal stashed window", "window", e.Window, "error", err)
	}
	if m.cfg.Stash.FocusOnReveal {
		if err := m.backend.Activate(e.Window); err != nil {
			m.logger.Debug("failed to focus revealed window", "window", e.Window, "error", err)
		}
	}
	m.persist()
	m.logger.Debug("stash revealed", "window", e.Window)
}

func (m *Manager) hide(e *Entry) {
	e.State = StateHidden
	if m.revealed == e.Window {
		m.revealed = 0
	}
	if err := m.backend.MoveResize(e.Window, e.Hidden.ToPlatform()); err != nil {
		m.logger.Warn("failed to hide stashed window", "window", e.Window, "error", err)
	}
	if m.cfg.Stash.FocusNextOnHide {
		m.focusNextVisible(e)
	}
	m.persist()
	m.logger.Debug("stash hidden", "window", e.Window)
}

// focusNextVisible hands focus to the topmost non-minimized,
// non-stashed window on the same screen.
func (m *Manager) focusNextVisible(hidden *Entry) {
	stacked, err := m.backend.ListWindowsStacked()
	if err != nil {
		return
	}
	for i := len(stacked) - 1; i >= 0; i-- {
		w := stacked[i]
		if w.ID == hidden.Window {
			continue
		}
		if _, stashed := m.entries[w.ID]; stashed {
			continue
		}
		if min, err := m.backend.IsMinimized(w.ID); err == nil && min {
			continue
		}
		frame := geometry.FromPlatform(w.Bounds)
		if !m.onScreen(frame, hidden.ScreenID) {
			continue
		}
		if err := m.backend.Activate(w.ID); err == nil {
			return
		}
	}
}

func (m *Manager) onScreen(frame geometry.Rect, screenID int) bool {
	displays, err := m.backend.Displays()
	if err != nil {
		return true
	}
	for _, d := range displays {
		if d.ID == screenID {
			return geometry.FromPlatform(d.Bounds).Contains(frame.MidX(), frame.MidY())
		}
	}
	return true
}

func (m *Manager) throttler(id platform.WindowID) *dispatch.Throttler {
	t, ok := m.throttlers[id]
	if !ok {
		t = dispatch.NewThrottler(transitionThrottle)
		m.throttlers[id] = t
	}
	return t
}
