// Package stash docks windows mostly off-screen at a horizontal edge
// and reveals them on pointer proximity. Per window the lifecycle is
// unmanaged → hidden ⇄ revealed → unmanaged; unstashing restores the
// pre-stash frame unless the user already moved the window themselves.
package stash

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/dispatch"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/history"
	"github.com/1broseidon/slate/internal/platform"
)

// Manager owns all stash state. Methods must run on the dispatch loop.
type Manager struct {
	backend platform.Backend
	cfg     *config.Config
	store   *Store
	history *history.Store
	logger  *slog.Logger
	loop    *dispatch.Loop

	entries  map[platform.WindowID]*Entry
	revealed platform.WindowID // 0 when nothing is revealed

	// Stash entries restored from disk whose windows could not be
	// located yet; retried when the virtual desktop changes.
	pending []Entry

	usage      int
	debounce   *dispatch.Debouncer
	throttlers map[platform.WindowID]*dispatch.Throttler
}

const (
	// Pointer evaluation debounce and the minimum gap between
	// reveal/hide transitions per window.
	revealDebounce     = 50 * time.Millisecond
	transitionThrottle = 100 * time.Millisecond
)

// NewManager creates the stash manager. store may be nil to disable
// persistence (tests).
func NewManager(backend platform.Backend, cfg *config.Config, store *Store, hist *history.Store, loop *dispatch.Loop, logger *slog.Logger) *Manager {
	m := &Manager{
		backend:    backend,
		cfg:        cfg,
		store:      store,
		history:    hist,
		logger:     logger,
		loop:       loop,
		entries:    make(map[platform.WindowID]*Entry),
		throttlers: make(map[platform.WindowID]*dispatch.Throttler),
	}
	if loop != nil {
		m.debounce = dispatch.NewDebouncer(loop, revealDebounce)
	}
	return m
}

// SetConfig swaps the configuration after a reload.
func (m *Manager) SetConfig(cfg *config.Config) {
	m.cfg = cfg
}

// HasStashes reports whether any window is currently managed; the
// daemon only polls the pointer when this is true or a session is open.
func (m *Manager) HasStashes() bool {
	return len(m.entries) > 0
}

// Entries returns a snapshot of all stashed windows.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out
}

// Claim intercepts actions the stash subsystem handles outright,
// bypassing geometry resolution: re-stashing an already-revealed window
// just hides it again, and unstash always belongs here.
func (m *Manager) Claim(id platform.WindowID, a *action.Action) bool {
	switch a.Direction {
	case action.Stash:
		e, ok := m.entries[id]
		if ok && e.State == StateRevealed && e.Edge == a.StashEdge() {
			m.hide(e)
			return true
		}
		return false
	case action.Unstash:
		if e, ok := m.entries[id]; ok {
			m.unstash(e, true)
		}
		// Unstash on an unmanaged window is a no-op either way.
		return true
	}
	return false
}

// HandleApplied is the engine's post-apply notification. frame is the
// rect the action left the window at.
func (m *Manager) HandleApplied(id platform.WindowID, a *action.Action, screen platform.Display, frame geometry.Rect) {
	switch {
	case a.Direction == action.Stash:
		m.stashWindow(id, a, screen, frame)
	case a.Direction == action.Undo || a.Direction == action.InitialFrame:
		// The engine already put the frame somewhere else; the stash is
		// simply dissolved without a second restore.
		if e, ok := m.entries[id]; ok {
			m.remove(e)
			m.persist()
		}
	case a.IsMove():
		// Move actions on stashed windows are a known gap: the stashed
		// rects are left untouched and the stash stays in effect.
	case a.IsResize():
		// Any other geometry action on a stashed window is a reveal
		// state correction; the stash remains in effect.
		if e, ok := m.entries[id]; ok {
			e.State = StateRevealed
			e.Revealed = frame
			m.setRevealed(id)
			m.persist()
		}
	}
}

// stashWindow adopts a window at the frame the stash action resolved
// to, computes its hidden rect and tucks it away.
func (m *Manager) stashWindow(id platform.WindowID, a *action.Action, screen platform.Display, revealed geometry.Rect) {
	edge := a.StashEdge()
	m.evictConflicting(id, a, edge, screen.ID, revealed)

	e, ok := m.entries[id]
	if !ok {
		desktop, _ := m.backend.WindowDesktop(id)
		e = &Entry{Window: id, PreStash: m.preStashFrame(id, revealed), Desktop: desktop}
		m.entries[id] = e
	}
	e.Action = *a
	e.Edge = edge
	e.ScreenID = screen.ID
	e.Revealed = revealed
	e.Hidden = m.hiddenRect(revealed, edge, screen)
	e.State = StateHidden

	if err := m.backend.MoveResize(id, e.Hidden.ToPlatform()); err != nil {
		m.logger.Warn("failed to tuck stashed window away", "window", id, "error", err)
	}
	if m.revealed == id {
		m.revealed = 0
	}
	m.persist()
	m.logger.Debug("window stashed", "window", id, "edge", edge, "screen", screen.Name)
}

// preStashFrame is the frame the window should return to on unstash.
// The engine records the pre-mutation frame into history right before
// it applies the stash, so the newest record holds the answer; without
// one the revealed rect is the best available fallback.
func (m *Manager) preStashFrame(id platform.WindowID, revealed geometry.Rect) geometry.Rect {
	if m.history != nil {
		if rec, ok := m.history.Last(id); ok && rec.Action.Direction == action.Stash {
			return rec.Frame
		}
	}
	return revealed
}

// evictConflicting clears the way for a new stash. A duplicate
// placement (same manipulation, same screen) is replaced outright;
// stashes on the same edge+screen whose exposed strip would shrink
// below the overlap tolerance are unstashed and restored, keeping every
// stash individually mouse-targetable.
func (m *Manager) evictConflicting(id platform.WindowID, a *action.Action, edge action.StashEdge, screenID int, revealed geometry.Rect) {
	tol := float64(m.cfg.Stash.OverlapTolerance)
	for _, e := range m.Entries() {
		entry, ok := m.entries[e.Window]
		if !ok || entry.Window == id || entry.ScreenID != screenID {
			continue
		}
		if entry.Action.SameManipulation(a) {
			m.logger.Debug("replacing duplicate stash placement", "window", entry.Window)
			m.unstash(entry, true)
			continue
		}
		if entry.Edge != edge {
			continue
		}
		overlap := entry.Hidden.VerticalOverlap(revealed)
		if overlap <= 0 {
			continue
		}
		exposed := min(entry.Hidden.Height, revealed.Height) - overlap
		if exposed < tol {
			m.logger.Debug("evicting overlapping stash", "window", entry.Window, "overlap", overlap)
			m.unstash(entry, true)
		}
	}
}

// hiddenRect slides the revealed rect off-screen along its edge,
// leaving a configurable strip visible for pointer targeting.
func (m *Manager) hiddenRect(revealed geometry.Rect, edge action.StashEdge, screen platform.Display) geometry.Rect {
	bounds := geometry.FromPlatform(screen.Bounds)
	reveal := float64(m.cfg.Stash.RevealPx)
	out := revealed
	switch edge {
	case action.StashEdgeRight:
		out.X = bounds.MaxX() - reveal
	default:
		out.X = bounds.X - revealed.Width + reveal
	}
	return out
}

// Unstash restores a stashed window by id; used by the control surface.
func (m *Manager) Unstash(id platform.WindowID) error {
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("window %d is not stashed", id)
	}
	m.unstash(e, true)
	return nil
}

// NotifyFrameChanged reports an out-of-band window move. A stashed
// window dragged away from its managed rects is unstashed in place;
// dragging is an explicit user override.
func (m *Manager) NotifyFrameChanged(id platform.WindowID, frame geometry.Rect) {
	e, ok := m.entries[id]
	if !ok {
		return
	}
	if frame.ApproxEquals(e.Hidden, 2.0) || frame.ApproxEquals(e.Revealed, 2.0) {
		return
	}
	m.logger.Debug("stashed window dragged, releasing", "window", id)
	m.remove(e)
	m.persist()
}

// RestoreAll returns every stashed window to its pre-stash frame; used
// at shutdown so no window is left marooned off-screen.
func (m *Manager) RestoreAll() {
	for _, e := range m.Entries() {
		if entry, ok := m.entries[e.Window]; ok {
			m.unstash(entry, true)
		}
	}
}

func (m *Manager) unstash(e *Entry, restore bool) {
	if restore {
		if err := m.backend.MoveResize(e.Window, e.PreStash.ToPlatform()); err != nil {
			m.logger.Warn("failed to restore pre-stash frame", "window", e.Window, "error", err)
		}
	}
	m.remove(e)
	m.persist()
}

func (m *Manager) remove(e *Entry) {
	delete(m.entries, e.Window)
	delete(m.throttlers, e.Window)
	if m.revealed == e.Window {
		m.revealed = 0
	}
}

func (m *Manager) setRevealed(id platform.WindowID) {
	if m.revealed != 0 && m.revealed != id {
		if prev, ok := m.entries[m.revealed]; ok {
			m.hide(prev)
		}
	}
	m.revealed = id
}

// UsageCount returns the persisted usage counter.
func (m *Manager) UsageCount() int {
	return m.usage
}

// SetUsageCount updates and persists the usage counter.
func (m *Manager) SetUsageCount(n int) {
	m.usage = n
	m.persist()
}

// Restore adopts persisted entries at startup. Windows that cannot be
// located go on the pending list and are retried on desktop changes.
func (m *Manager) Restore(snap Snapshot) {
	m.usage = snap.UsageCount
	for _, e := range snap.Entries {
		m.adoptOrDefer(e)
	}
	m.persist()
}

// DesktopChanged retries pending restorations; windows on another
// virtual desktop only become resolvable once that desktop is active.
func (m *Manager) DesktopChanged() {
	if len(m.pending) == 0 {
		return
	}
	still := m.pending[:0]
	for _, e := range m.pending {
		if !m.tryAdopt(e) {
			still = append(still, e)
		}
	}
	m.pending = still
	m.persist()
}

func (m *Manager) adoptOrDefer(e Entry) {
	if m.tryAdopt(e) {
		return
	}
	m.logger.Debug("stashed window not found, deferring restore", "window", e.Window)
	m.pending = append(m.pending, e)
}

func (m *Manager) tryAdopt(e Entry) bool {
	if _, err := m.backend.WindowRect(e.Window); err != nil {
		return false
	}
	entry := e
	entry.State = StateHidden
	m.entries[e.Window] = &entry
	if err := m.backend.MoveResize(e.Window, entry.Hidden.ToPlatform()); err != nil {
		m.logger.Warn("failed to re-tuck restored stash", "window", e.Window, "error", err)
	}
	return true
}

func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	snap := Snapshot{Entries: m.Entries(), UsageCount: m.usage}
	snap.Entries = append(snap.Entries, m.pending...)
	if err := m.store.Save(snap); err != nil {
		m.logger.Warn("failed to persist stash state", "error", err)
	}
}
