package engine

import (
	"log/slog"
	"testing"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/history"
	"github.com/1broseidon/slate/internal/platform"
)

type fakeBackend struct {
	displays   []platform.Display
	active     platform.WindowID
	rects      map[platform.WindowID]platform.Rect
	minimized  map[platform.WindowID]bool
	fullscreen map[platform.WindowID]bool
	resizable  bool
	minWidth   int

	maximized  []platform.WindowID
	moves      int
	hiddenApps []platform.WindowID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		displays: []platform.Display{{
			ID:     0,
			Bounds: platform.Rect{Width: 1000, Height: 800},
			Usable: platform.Rect{Width: 1000, Height: 800},
		}},
		active:     1,
		rects:      map[platform.WindowID]platform.Rect{1: {X: 100, Y: 100, Width: 600, Height: 400}},
		minimized:  map[platform.WindowID]bool{},
		fullscreen: map[platform.WindowID]bool{},
		resizable:  true,
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.displays, nil }

func (f *fakeBackend) ActiveDisplay() (platform.Display, error) { return f.displays[0], nil }

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return f.active, nil }

func (f *fakeBackend) WindowInfo(id platform.WindowID) (platform.Window, error) {
	return platform.Window{ID: id, Bounds: f.rects[id]}, nil
}

func (f *fakeBackend) ListWindowsStacked() ([]platform.Window, error) {
	out := make([]platform.Window, 0, len(f.rects))
	for id, r := range f.rects {
		out = append(out, platform.Window{ID: id, Bounds: r})
	}
	return out, nil
}

func (f *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	return f.rects[id], nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.moves++
	if f.minWidth > 0 && bounds.Width < f.minWidth {
		bounds.Width = f.minWidth
	}
	f.rects[id] = bounds
	return nil
}

func (f *fakeBackend) Minimize(id platform.WindowID) error {
	f.minimized[id] = true
	return nil
}

func (f *fakeBackend) Unminimize(id platform.WindowID) error {
	f.minimized[id] = false
	return nil
}

func (f *fakeBackend) IsMinimized(id platform.WindowID) (bool, error) {
	return f.minimized[id], nil
}

func (f *fakeBackend) SetFullscreen(id platform.WindowID, on bool) error {
	f.fullscreen[id] = on
	return nil
}

func (f *fakeBackend) IsFullscreen(id platform.WindowID) (bool, error) {
	return f.fullscreen[id], nil
}

func (f *fakeBackend) Maximize(id platform.WindowID) error {
	f.maximized = append(f.maximized, id)
	return nil
}

func (f *fakeBackend) IsResizable(platform.WindowID) (bool, error) { return f.resizable, nil }

func (f *fakeBackend) Activate(platform.WindowID) error { return nil }

func (f *fakeBackend) HideApp(id platform.WindowID) error {
	f.hiddenApps = append(f.hiddenApps, id)
	return nil
}

func (f *fakeBackend) PointerPosition() (platform.Point, error) { return platform.Point{}, nil }

func (f *fakeBackend) CurrentDesktop() (int, error) { return 0, nil }

func (f *fakeBackend) WindowDesktop(platform.WindowID) (int, error) { return 0, nil }

type recordedApply struct {
	id    platform.WindowID
	dir   action.Direction
	frame geometry.Rect
}

type fakeNotifier struct {
	applied []recordedApply
}

func (f *fakeNotifier) HandleApplied(id platform.WindowID, a *action.Action, screen platform.Display, frame geometry.Rect) {
	f.applied = append(f.applied, recordedApply{id: id, dir: a.Direction, frame: frame})
}

func newEngine(t *testing.T) (*Engine, *fakeBackend, *history.Store) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Animation.Enabled = false
	backend := newFakeBackend()
	hist := history.NewStore()
	eng := New(backend, hist, cfg, slog.New(slog.DiscardHandler))
	// The window-manager maximize path is exercised by its own test.
	eng.nativeMaximize = false
	return eng, backend, hist
}

func TestApplyLeftHalf(t *testing.T) {
	eng, backend, _ := newEngine(t)

	a := action.New(action.LeftHalf)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	want := platform.Rect{X: 0, Y: 0, Width: 500, Height: 800}
	if got := backend.rects[1]; got != want {
		t.Fatalf("frame = %+v, want %+v", got, want)
	}
}

func TestUndoRestoresPriorFrame(t *testing.T) {
	eng, backend, _ := newEngine(t)
	original := backend.rects[1]

	a := action.New(action.Maximize)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if backend.rects[1] == original {
		t.Fatal("maximize did not change the frame")
	}

	undo := action.New(action.Undo)
	if err := eng.Apply(1, &undo, backend.displays[0], true); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := backend.rects[1]; got != original {
		t.Fatalf("undo restored %+v, want %+v", got, original)
	}
}

func TestInitialFrameRestoresOldestAndClearsHistory(t *testing.T) {
	eng, backend, hist := newEngine(t)
	original := backend.rects[1]

	for _, dir := range []action.Direction{action.Maximize, action.LeftHalf, action.TopHalf} {
		a := action.New(dir)
		if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
			t.Fatalf("apply %s failed: %v", dir, err)
		}
	}

	restore := action.New(action.InitialFrame)
	if err := eng.Apply(1, &restore, backend.displays[0], true); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := backend.rects[1]; got != original {
		t.Fatalf("initial-frame restored %+v, want %+v", got, original)
	}
	if _, ok := hist.Last(1); ok {
		t.Fatal("history must be cleared after initial-frame restore")
	}
}

func TestFullscreenToggles(t *testing.T) {
	eng, backend, _ := newEngine(t)

	a := action.New(action.Fullscreen)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !backend.fullscreen[1] {
		t.Fatal("fullscreen must be on after first toggle")
	}
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if backend.fullscreen[1] {
		t.Fatal("fullscreen must be off after second toggle")
	}
	if backend.moves != 0 {
		t.Fatal("fullscreen toggle must not touch geometry")
	}
}

func TestMinimizeOthersSparesTarget(t *testing.T) {
	eng, backend, _ := newEngine(t)
	backend.rects[2] = platform.Rect{X: 500, Y: 100, Width: 300, Height: 300}
	backend.rects[3] = platform.Rect{X: 200, Y: 400, Width: 300, Height: 300}

	a := action.New(action.MinimizeOthers)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if backend.minimized[1] {
		t.Fatal("target window must not be minimized")
	}
	if !backend.minimized[2] || !backend.minimized[3] {
		t.Fatalf("other windows must be minimized, got %v", backend.minimized)
	}
}

func TestNativeMaximizePreferredForActiveWindow(t *testing.T) {
	eng, backend, _ := newEngine(t)
	eng.nativeMaximize = true

	a := action.New(action.Maximize)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(backend.maximized) != 1 {
		t.Fatal("expected the window manager's maximize to be used")
	}
	if backend.moves != 0 {
		t.Fatal("native path must not set frames itself")
	}

	// A non-active window falls back to self-managed geometry.
	backend.rects[2] = platform.Rect{X: 10, Y: 10, Width: 200, Height: 200}
	if err := eng.Apply(2, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(backend.maximized) != 1 {
		t.Fatal("non-active window must not take the native path")
	}
	if backend.moves == 0 {
		t.Fatal("fallback must set the frame")
	}
}

func TestCrossScreenPreservesProportions(t *testing.T) {
	eng, backend, _ := newEngine(t)
	second := platform.Display{
		ID:     1,
		Bounds: platform.Rect{X: 1000, Width: 2000, Height: 1600},
		Usable: platform.Rect{X: 1000, Width: 2000, Height: 1600},
	}
	backend.displays = append(backend.displays, second)
	backend.rects[1] = platform.Rect{X: 100, Y: 100, Width: 500, Height: 400}

	a := action.New(action.NextScreen)
	if err := eng.Apply(1, &a, second, true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	want := platform.Rect{X: 1200, Y: 200, Width: 1000, Height: 800}
	if got := backend.rects[1]; got != want {
		t.Fatalf("cross-screen frame = %+v, want %+v", got, want)
	}
}

func TestOversizedResultPushedInside(t *testing.T) {
	eng, backend, _ := newEngine(t)
	backend.minWidth = 600

	a := action.New(action.RightHalf)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	got := backend.rects[1]
	if got.Width != 600 {
		t.Fatalf("width = %d, want app minimum 600", got.Width)
	}
	if got.X+got.Width > 1000 {
		t.Fatalf("frame %+v still overruns the screen", got)
	}
}

func TestNotifierSeesEveryApply(t *testing.T) {
	eng, backend, _ := newEngine(t)
	notifier := &fakeNotifier{}
	eng.SetNotifier(notifier)

	a := action.New(action.LeftHalf)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(notifier.applied) != 1 || notifier.applied[0].dir != action.LeftHalf {
		t.Fatalf("notifier calls = %+v", notifier.applied)
	}
}

func TestExitsFullscreenBeforeResize(t *testing.T) {
	eng, backend, _ := newEngine(t)
	backend.fullscreen[1] = true

	a := action.New(action.LeftHalf)
	if err := eng.Apply(1, &a, backend.displays[0], true); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if backend.fullscreen[1] {
		t.Fatal("fullscreen must be dropped before setting a frame")
	}
}
