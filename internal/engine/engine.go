// Package engine executes resolved actions against real windows. It is
// the only place that mutates window frames; everything upstream deals
// in pure values.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/history"
	"github.com/1broseidon/slate/internal/platform"
)

// Notifier receives every applied action so stash bookkeeping stays
// consistent even for actions that didn't originate from the stash
// flow.
type Notifier interface {
	HandleApplied(id platform.WindowID, a *action.Action, screen platform.Display, frame geometry.Rect)
}

// Engine applies actions to windows.
type Engine struct {
	backend  platform.Backend
	history  *history.Store
	cfg      *config.Config
	logger   *slog.Logger
	animator *animator
	notifier Notifier

	// Hook for battery-saver state; animation is forced off when it
	// reports true and the config says so.
	lowPower func() bool

	// nativeMaximize prefers the window manager's own maximize over a
	// self-computed frame when the target window is the active one.
	nativeMaximize bool
}

// New creates an engine. notifier may be nil when the stash subsystem
// is disabled.
func New(backend platform.Backend, hist *history.Store, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		backend:        backend,
		history:        hist,
		cfg:            cfg,
		logger:         logger,
		animator:       newAnimator(backend),
		lowPower:       systemLowPower,
		nativeMaximize: true,
	}
}

// SetNotifier installs the stash notification hook.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// SetConfig swaps the configuration after a reload.
func (e *Engine) SetConfig(cfg *config.Config) {
	e.cfg = cfg
}

// StopAnimations cancels in-flight frame animations; used at shutdown.
func (e *Engine) StopAnimations() {
	e.animator.cancelAll()
}

// Apply executes one action on a window. record controls whether the
// pre-mutation frame enters window history.
func (e *Engine) Apply(id platform.WindowID, a *action.Action, screen platform.Display, record bool) error {
	if a == nil || a.Direction == action.NoAction {
		return nil
	}

	if done, err := e.applySideEffect(id, a, screen); done {
		return err
	}

	prior, err := e.backend.WindowRect(id)
	if err != nil {
		return fmt.Errorf("failed to read window frame: %w", err)
	}
	priorRect := geometry.FromPlatform(prior)

	opts := geometry.Options{
		Padding:  paddingFrom(e.cfg),
		InnerGap: float64(e.cfg.InnerGap),
	}

	// History is written before the frame mutates so undo always has a
	// prior entry to fall back on.
	switch a.Direction {
	case action.Undo:
		if rec, ok := e.history.PopLast(id); ok {
			opts.UndoRect = &rec.Frame
		}
	case action.InitialFrame:
		if r, ok := e.history.InitialFrame(id); ok {
			opts.InitialRect = &r
			e.history.Erase(id)
		}
	default:
		if record {
			e.history.Add(id, *a, priorRect)
		}
	}

	if a.IsSizeAdjust() {
		opts.SnapCandidates = e.history.Frames(id)
	}
	if resizable, err := e.backend.IsResizable(id); err == nil && !resizable {
		opts.NonResizable = true
	}

	bounds := geometry.FromPlatform(screen.Usable)
	crossing := e.crossesScreens(priorRect, screen)
	if crossing != nil {
		p := geometry.Capture(priorRect, geometry.FromPlatform(crossing.Usable))
		opts.Proportional = &p
	}

	if e.tryNativePath(id, a, crossing == nil) {
		e.notify(id, a, screen, priorRect)
		return nil
	}

	if fs, err := e.backend.IsFullscreen(id); err == nil && fs {
		if err := e.backend.SetFullscreen(id, false); err != nil {
			e.logger.Warn("failed to leave fullscreen before resize", "window", id, "error", err)
		}
	}

	target := geometry.Resolve(a, bounds, priorRect, opts)
	if target.IsEmpty() {
		e.notify(id, a, screen, priorRect)
		return nil
	}

	animated, err := e.setFrame(id, priorRect, target)
	if err != nil {
		return err
	}

	// Apps enforcing a large minimum size can overrun the screen; push
	// the result back inside with a position-only adjustment. Skipped
	// mid-animation since the frame is still in flight.
	if !animated {
		if got, err := e.backend.WindowRect(id); err == nil {
			gotRect := geometry.FromPlatform(got)
			if !bounds.ContainsRect(gotRect, 1.0) {
				pushed := gotRect.PushedInside(bounds)
				if err := e.backend.MoveResize(id, pushed.ToPlatform()); err != nil {
					e.logger.Warn("failed to push frame inside bounds", "window", id, "error", err)
				}
				target = pushed
			}
		}
	}

	e.notify(id, a, screen, target)
	return nil
}

// applySideEffect handles the actions that never touch geometry.
func (e *Engine) applySideEffect(id platform.WindowID, a *action.Action, screen platform.Display) (bool, error) {
	switch a.Direction {
	case action.Hide:
		return true, e.backend.HideApp(id)
	case action.Minimize:
		min, err := e.backend.IsMinimized(id)
		if err != nil {
			return true, err
		}
		if min {
			return true, e.backend.Unminimize(id)
		}
		return true, e.backend.Minimize(id)
	case action.Fullscreen:
		fs, err := e.backend.IsFullscreen(id)
		if err != nil {
			return true, err
		}
		return true, e.backend.SetFullscreen(id, !fs)
	case action.MinimizeOthers:
		return true, e.minimizeOthers(id, screen)
	}
	return false, nil
}

func (e *Engine) minimizeOthers(id platform.WindowID, screen platform.Display) error {
	windows, err := e.backend.ListWindowsStacked()
	if err != nil {
		return err
	}
	screenBounds := geometry.FromPlatform(screen.Bounds)
	for _, w := range windows {
		if w.ID == id {
			continue
		}
		frame := geometry.FromPlatform(w.Bounds)
		if !screenBounds.Contains(frame.MidX(), frame.MidY()) {
			continue
		}
		if min, err := e.backend.IsMinimized(w.ID); err == nil && min {
			continue
		}
		if err := e.backend.Minimize(w.ID); err != nil {
			e.logger.Debug("failed to minimize window", "window", w.ID, "error", err)
		}
	}
	return nil
}

// tryNativePath lets the window manager do its own maximize when the
// target is the active window and no screen crossing is involved.
// Failures fall through to the self-managed path silently.
func (e *Engine) tryNativePath(id platform.WindowID, a *action.Action, sameScreen bool) bool {
	if !e.nativeMaximize || a.Direction != action.Maximize || !sameScreen {
		return false
	}
	active, err := e.backend.ActiveWindow()
	if err != nil || active != id {
		return false
	}
	if err := e.backend.Maximize(id); err != nil {
		e.logger.Debug("native maximize failed, falling back", "window", id, "error", err)
		return false
	}
	return true
}

// crossesScreens returns the display the window currently sits on when
// that differs from the target screen, nil otherwise.
func (e *Engine) crossesScreens(frame geometry.Rect, target platform.Display) *platform.Display {
	displays, err := e.backend.Displays()
	if err != nil {
		return nil
	}
	for i := range displays {
		d := displays[i]
		if geometry.FromPlatform(d.Bounds).Contains(frame.MidX(), frame.MidY()) {
			if d.ID == target.ID {
				return nil
			}
			return &displays[i]
		}
	}
	return nil
}

func (e *Engine) setFrame(id platform.WindowID, from, to geometry.Rect) (bool, error) {
	if e.animationEnabled() {
		e.animator.animate(id, from.ToPlatform(), to.ToPlatform(), e.cfg.Animation.DurationMS)
		return true, nil
	}
	if err := e.backend.MoveResize(id, to.ToPlatform()); err != nil {
		return false, fmt.Errorf("failed to set window frame: %w", err)
	}
	return false, nil
}

func (e *Engine) animationEnabled() bool {
	if !e.cfg.Animation.Enabled {
		return false
	}
	if e.cfg.Animation.DisableOnLowPower && e.lowPower() {
		return false
	}
	return true
}

func (e *Engine) notify(id platform.WindowID, a *action.Action, screen platform.Display, frame geometry.Rect) {
	if e.notifier != nil {
		e.notifier.HandleApplied(id, a, screen, frame)
	}
}

func paddingFrom(cfg *config.Config) geometry.Padding {
	return geometry.Padding{
		Top:    float64(cfg.ScreenPadding.Top),
		Bottom: float64(cfg.ScreenPadding.Bottom),
		Left:   float64(cfg.ScreenPadding.Left),
		Right:  float64(cfg.ScreenPadding.Right),
	}
}
