package stash

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/dispatch"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/history"
	"github.com/1broseidon/slate/internal/platform"
)

type fakeBackend struct {
	rects     map[platform.WindowID]platform.Rect
	missing   map[platform.WindowID]bool
	stacked   []platform.WindowID
	activated []platform.WindowID
	moves     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		rects:   map[platform.WindowID]platform.Rect{},
		missing: map[platform.WindowID]bool{},
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{testScreen()}, nil
}

func (f *fakeBackend) ActiveDisplay() (platform.Display, error) { return testScreen(), nil }

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return 0, fmt.Errorf("none") }

func (f *fakeBackend) WindowInfo(id platform.WindowID) (platform.Window, error) {
	return platform.Window{ID: id, Bounds: f.rects[id]}, nil
}

func (f *fakeBackend) ListWindowsStacked() ([]platform.Window, error) {
	out := make([]platform.Window, 0, len(f.stacked))
	for _, id := range f.stacked {
		out = append(out, platform.Window{ID: id, Bounds: f.rects[id]})
	}
	return out, nil
}

func (f *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	if f.missing[id] {
		return platform.Rect{}, fmt.Errorf("window %d not found", id)
	}
	r, ok := f.rects[id]
	if !ok {
		return platform.Rect{}, fmt.Errorf("window %d not found", id)
	}
	return r, nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.moves++
	f.rects[id] = bounds
	return nil
}

func (f *fakeBackend) Minimize(platform.WindowID) error            { return nil }
func (f *fakeBackend) Unminimize(platform.WindowID) error          { return nil }
func (f *fakeBackend) IsMinimized(platform.WindowID) (bool, error) { return false, nil }

func (f *fakeBackend) SetFullscreen(platform.WindowID, bool) error { return nil }

func (f *fakeBackend) IsFullscreen(platform.WindowID) (bool, error) { return false, nil }

func (f *fakeBackend) Maximize(platform.WindowID) error { return nil }

func (f *fakeBackend) IsResizable(platform.WindowID) (bool, error) { return true, nil }

func (f *fakeBackend) Activate(id platform.WindowID) error {
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeBackend) HideApp(platform.WindowID) error { return nil }

func (f *fakeBackend) PointerPosition() (platform.Point, error) { return platform.Point{}, nil }

func (f *fakeBackend) CurrentDesktop() (int, error) { return 0, nil }

func (f *fakeBackend) WindowDesktop(platform.WindowID) (int, error) { return 0, nil }

func testScreen() platform.Display {
	return platform.Display{
		ID:     0,
		Name:   "primary",
		Bounds: platform.Rect{Width: 1000, Height: 800},
		Usable: platform.Rect{Width: 1000, Height: 800},
	}
}

func stashAction(anchor action.Anchor) action.Action {
	a := action.New(action.Stash)
	a.Custom = &action.CustomFields{Anchor: anchor}
	return a
}

func newManager(t *testing.T) (*Manager, *fakeBackend, *history.Store) {
	t.Helper()
	backend := newFakeBackend()
	hist := history.NewStore()
	m := NewManager(backend, config.DefaultConfig(), nil, hist, nil, slog.New(slog.DiscardHandler))
	return m, backend, hist
}

// stashWindowAt simulates the engine flow: record the pre-stash frame,
// move to the revealed rect, then notify the manager.
func stashWindowAt(m *Manager, backend *fakeBackend, hist *history.Store, id platform.WindowID, a action.Action, revealed geometry.Rect) {
	pre := backend.rects[id]
	hist.Add(id, a, geometry.FromPlatform(pre))
	backend.rects[id] = revealed.ToPlatform()
	m.HandleApplied(id, &a, testScreen(), revealed)
}

func TestStashTucksWindowAtEdge(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	a := stashAction(action.AnchorLeft)
	stashWindowAt(m, backend, hist, 1, a, geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})

	// Default reveal strip is 25px: the window sits off-screen with
	// only that strip visible.
	want := platform.Rect{X: -475, Y: 100, Width: 500, Height: 400}
	if got := backend.rects[1]; got != want {
		t.Fatalf("hidden frame = %+v, want %+v", got, want)
	}
	if !m.HasStashes() {
		t.Fatal("manager must report active stashes")
	}
}

func TestRightEdgeHiddenRect(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 400, Height: 300}

	a := stashAction(action.AnchorRight)
	stashWindowAt(m, backend, hist, 1, a, geometry.Rect{X: 600, Y: 100, Width: 400, Height: 300})

	want := platform.Rect{X: 975, Y: 100, Width: 400, Height: 300}
	if got := backend.rects[1]; got != want {
		t.Fatalf("hidden frame = %+v, want %+v", got, want)
	}
}

func TestOverlappingStashEvictsAndRestores(t *testing.T) {
	m, backend, hist := newManager(t)
	preA := platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}
	backend.rects[1] = preA
	backend.rects[2] = platform.Rect{X: 400, Y: 250, Width: 500, Height: 400}

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})
	// B's vertical range overlaps A's almost completely: under 100px of
	// A would stay targetable, so A is unstashed and restored. A
	// different anchor keeps this from being a duplicate placement.
	stashWindowAt(m, backend, hist, 2, stashAction(action.AnchorTopLeft), geometry.Rect{X: 0, Y: 150, Width: 500, Height: 400})

	if got := backend.rects[1]; got != preA {
		t.Fatalf("evicted window restored to %+v, want pre-stash %+v", got, preA)
	}
	entries := m.Entries()
	if len(entries) != 1 || entries[0].Window != 2 {
		t.Fatalf("expected only window 2 stashed, got %+v", entries)
	}
}

func TestDisjointStashesCoexist(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 0, Width: 400, Height: 300}
	backend.rects[2] = platform.Rect{X: 300, Y: 450, Width: 400, Height: 300}

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorTopLeft), geometry.Rect{X: 0, Y: 0, Width: 400, Height: 300})
	stashWindowAt(m, backend, hist, 2, stashAction(action.AnchorBottomLeft), geometry.Rect{X: 0, Y: 500, Width: 400, Height: 300})

	if got := len(m.Entries()); got != 2 {
		t.Fatalf("expected both stashes to coexist, got %d", got)
	}
}

func TestDuplicatePlacementReplaced(t *testing.T) {
	m, backend, hist := newManager(t)
	preA := platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}
	backend.rects[1] = preA
	backend.rects[2] = platform.Rect{X: 350, Y: 220, Width: 500, Height: 400}

	a := stashAction(action.AnchorLeft)
	revealed := geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400}
	stashWindowAt(m, backend, hist, 1, a, revealed)
	stashWindowAt(m, backend, hist, 2, a, revealed)

	entries := m.Entries()
	if len(entries) != 1 || entries[0].Window != 2 {
		t.Fatalf("duplicate placement must replace, got %+v", entries)
	}
	if got := backend.rects[1]; got != preA {
		t.Fatalf("replaced window restored to %+v, want %+v", got, preA)
	}
}

func TestRevealAndHideFollowPointer(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	revealed := geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400}
	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), revealed)

	// Pointer on the visible strip reveals the window.
	m.evaluatePointer(platform.Point{X: 10, Y: 300})
	if got := backend.rects[1]; got != revealed.ToPlatform() {
		t.Fatalf("frame after reveal = %+v, want %+v", got, revealed.ToPlatform())
	}

	// Still inside the revealed rect plus tolerance: stays revealed.
	time.Sleep(150 * time.Millisecond)
	m.evaluatePointer(platform.Point{X: 505, Y: 300})
	if got := backend.rects[1]; got != revealed.ToPlatform() {
		t.Fatal("pointer within leave tolerance must not hide")
	}

	// Far away: hides again.
	m.evaluatePointer(platform.Point{X: 800, Y: 700})
	want := platform.Rect{X: -475, Y: 100, Width: 500, Height: 400}
	if got := backend.rects[1]; got != want {
		t.Fatalf("frame after hide = %+v, want %+v", got, want)
	}
}

func TestOnlyOneRevealedAtATime(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 0, Width: 400, Height: 300}
	backend.rects[2] = platform.Rect{X: 300, Y: 450, Width: 400, Height: 300}

	topRevealed := geometry.Rect{X: 0, Y: 0, Width: 400, Height: 300}
	bottomRevealed := geometry.Rect{X: 0, Y: 500, Width: 400, Height: 300}
	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorTopLeft), topRevealed)
	stashWindowAt(m, backend, hist, 2, stashAction(action.AnchorBottomLeft), bottomRevealed)

	m.evaluatePointer(platform.Point{X: 5, Y: 100})
	time.Sleep(150 * time.Millisecond)
	m.evaluatePointer(platform.Point{X: 5, Y: 600})
	time.Sleep(150 * time.Millisecond)
	m.evaluatePointer(platform.Point{X: 5, Y: 600})

	revealedCount := 0
	for _, e := range m.Entries() {
		if e.State == StateRevealed {
			revealedCount++
		}
	}
	if revealedCount != 1 {
		t.Fatalf("revealed count = %d, want 1", revealedCount)
	}
}

func TestDebounceCollapsesPointerBurst(t *testing.T) {
	loop := dispatch.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	backend := newFakeBackend()
	hist := history.NewStore()
	m := NewManager(backend, config.DefaultConfig(), nil, hist, loop, slog.New(slog.DiscardHandler))

	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}
	loop.PostWait(func() {
		stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})
	})
	movesBefore := backend.moves

	for i := 0; i < 10; i++ {
		loop.PostWait(func() { m.PointerMoved(platform.Point{X: 10, Y: 300}) })
	}
	time.Sleep(200 * time.Millisecond)

	var moves int
	loop.PostWait(func() { moves = backend.moves })
	if moves != movesBefore+1 {
		t.Fatalf("pointer burst caused %d transitions, want 1", moves-movesBefore)
	}
}

func TestClaimRestashHidesRevealed(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	a := stashAction(action.AnchorLeft)
	stashWindowAt(m, backend, hist, 1, a, geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})
	m.evaluatePointer(platform.Point{X: 10, Y: 300})
	time.Sleep(150 * time.Millisecond)

	if !m.Claim(1, &a) {
		t.Fatal("stash action on a revealed stash must be claimed")
	}
	entries := m.Entries()
	if len(entries) != 1 || entries[0].State != StateHidden {
		t.Fatalf("claimed re-stash must hide, got %+v", entries)
	}
}

func TestClaimUnstashRestores(t *testing.T) {
	m, backend, hist := newManager(t)
	pre := platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}
	backend.rects[1] = pre

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})

	unstash := action.New(action.Unstash)
	if !m.Claim(1, &unstash) {
		t.Fatal("unstash must always be claimed")
	}
	if got := backend.rects[1]; got != pre {
		t.Fatalf("unstash restored %+v, want %+v", got, pre)
	}
	if m.HasStashes() {
		t.Fatal("no stashes must remain")
	}
}

func TestUndoDissolvesWithoutRestore(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})
	hidden := backend.rects[1]

	undo := action.New(action.Undo)
	m.HandleApplied(1, &undo, testScreen(), geometry.FromPlatform(hidden))

	if m.HasStashes() {
		t.Fatal("undo must dissolve the stash")
	}
	if backend.rects[1] != hidden {
		t.Fatal("undo dissolution must not restore a second time")
	}
}

func TestResizeOnStashedIsRevealCorrection(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})

	layout := action.New(action.LeftHalf)
	newFrame := geometry.Rect{X: 0, Y: 0, Width: 500, Height: 800}
	m.HandleApplied(1, &layout, testScreen(), newFrame)

	entries := m.Entries()
	if len(entries) != 1 || entries[0].State != StateRevealed {
		t.Fatalf("resize must correct state to revealed, got %+v", entries)
	}
	if entries[0].Revealed != newFrame {
		t.Fatalf("revealed rect = %+v, want %+v", entries[0].Revealed, newFrame)
	}
}

func TestDragReleasesStash(t *testing.T) {
	m, backend, hist := newManager(t)
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}

	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})

	m.NotifyFrameChanged(1, geometry.Rect{X: 400, Y: 300, Width: 500, Height: 400})
	if m.HasStashes() {
		t.Fatal("dragging a stashed window must release it")
	}
}

func TestPersistAndRestoreWithPendingRetry(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(filepath.Join(dir, "stash.json"))

	m, backend, hist := newManager(t)
	m.store = store
	backend.rects[1] = platform.Rect{X: 300, Y: 200, Width: 500, Height: 400}
	stashWindowAt(m, backend, hist, 1, stashAction(action.AnchorLeft), geometry.Rect{X: 0, Y: 100, Width: 500, Height: 400})
	m.SetUsageCount(12)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snap.Entries) != 1 || snap.UsageCount != 12 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Fresh manager; the window is on another desktop at first.
	backend2 := newFakeBackend()
	backend2.missing[1] = true
	m2 := NewManager(backend2, config.DefaultConfig(), store, history.NewStore(), nil, slog.New(slog.DiscardHandler))
	m2.Restore(snap)
	if m2.HasStashes() {
		t.Fatal("unresolvable window must stay pending")
	}

	// Desktop change makes it resolvable.
	backend2.missing[1] = false
	backend2.rects[1] = platform.Rect{X: 50, Y: 50, Width: 500, Height: 400}
	m2.DesktopChanged()
	if !m2.HasStashes() {
		t.Fatal("pending stash must be adopted after desktop change")
	}
	if got := m2.UsageCount(); got != 12 {
		t.Fatalf("usage count = %d, want 12", got)
	}
}
