// Package daemon wires the window-action machinery together: the X
// connection, the single dispatch loop all core state runs on, the
// trigger observers, the session controller, the apply engine and the
// stash manager. Event callbacks arrive on the X goroutine and are
// posted onto the loop; pollers feed the loop on their own tickers.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/config"
	"github.com/1broseidon/slate/internal/dispatch"
	"github.com/1broseidon/slate/internal/engine"
	"github.com/1broseidon/slate/internal/geometry"
	"github.com/1broseidon/slate/internal/history"
	"github.com/1broseidon/slate/internal/ipc"
	"github.com/1broseidon/slate/internal/platform"
	"github.com/1broseidon/slate/internal/session"
	"github.com/1broseidon/slate/internal/stash"
	"github.com/1broseidon/slate/internal/trigger"
	"github.com/1broseidon/slate/internal/x11"
)

const (
	// pointerPollInterval is how often the pointer position is sampled
	// while a session is open or stashes exist. The radial selector and
	// the stash reveal tracker both feed from this.
	pointerPollInterval = 50 * time.Millisecond

	desktopPollInterval = 500 * time.Millisecond

	// displayRetryInterval is the dormancy poll: without a reachable
	// display the daemon waits instead of exiting, so a login manager
	// can start it early.
	displayRetryInterval = 2 * time.Second
)

// Daemon owns the long-running process state.
type Daemon struct {
	logger *slog.Logger
	cfg    *config.Config

	conn    *x11.Connection
	backend platform.Backend
	loop    *dispatch.Loop

	hist     *history.Store
	eng      *engine.Engine
	sess     *session.Controller
	stashMgr *stash.Manager
	keys     *trigger.KeybindObserver
	mouse    *trigger.MiddleClickObserver

	// Loop-confined input state.
	grabbedTriggers []action.Key
	keyboardGrabbed bool
	leftGrabbed     bool
	middleGrabbed   bool
	lastPointer     platform.Point
	hasLastPointer  bool
	desktop         int
}

// New creates a daemon around a loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) *Daemon {
	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}
}

// Run connects, wires everything and blocks until the context is
// cancelled or the X connection drops.
func (d *Daemon) Run(ctx context.Context) error {
	// Stay dormant until a display is reachable.
	for !x11.Available() {
		d.logger.Info("no display reachable, waiting", "retry", displayRetryInterval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(displayRetryInterval):
		}
	}

	conn, err := x11.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer conn.Close()
	d.conn = conn
	d.backend = platform.NewX11Backend(conn)

	d.loop = dispatch.NewLoop()
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()
	go d.loop.Run(loopCtx)

	d.hist = history.NewStore()
	d.eng = engine.New(d.backend, d.hist, d.cfg, d.logger)

	store, err := stash.NewStore()
	if err != nil {
		d.logger.Warn("stash persistence disabled", "error", err)
		store = nil
	}
	d.stashMgr = stash.NewManager(d.backend, d.cfg, store, d.hist, d.loop, d.logger)
	if store != nil {
		if snap, err := store.Load(); err == nil {
			d.stashMgr.Restore(snap)
		} else {
			d.logger.Warn("failed to load stash state", "error", err)
		}
	}
	d.eng.SetNotifier(d.stashMgr)

	d.sess = session.NewController(d.backend, d.eng, d.stashMgr, d.cfg, d.logger)
	d.sess.SetUsage(d.stashMgr.UsageCount(), d.stashMgr.SetUsageCount)

	cache := action.NewCache(d.cfg.Actions, d.cfg.Cycle.ReverseOnShift)
	d.keys = trigger.NewKeybindObserver(d.sess, cache, d.cfg.TriggerKeys, systemReservedChords())
	d.keys.SetDeferredKeys(d.cfg.DeferKeys)
	d.mouse = trigger.NewMiddleClickObserver(d.sess, d.loop, d.cfg.MiddleClick.Enabled, middleClickDelay(d.cfg))

	if cur, err := d.backend.CurrentDesktop(); err == nil {
		d.desktop = cur
	}

	d.grabTriggers(d.cfg.TriggerKeys)
	d.syncMiddleGrab(d.cfg.MiddleClick.Enabled)

	conn.OnKeyEvents(d.onKey)
	conn.OnButtonEvents(d.onButton)

	srv, err := ipc.NewServer(d, d.logger)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	d.watchConfig(ctx)
	go d.pollPointer(ctx)
	go d.pollDesktop(ctx)

	d.logger.Info("daemon started",
		"trigger", d.cfg.TriggerKeys.String(),
		"actions", len(d.cfg.Actions))

	eventsDone := make(chan struct{})
	go func() {
		conn.EventLoop()
		close(eventsDone)
	}()

	select {
	case <-ctx.Done():
		conn.StopEventLoop()
		<-eventsDone
	case <-eventsDone:
	}

	d.logger.Info("shutting down")
	d.loop.PostWait(func() {
		d.stashMgr.RestoreAll()
	})
	d.eng.StopAnimations()
	return nil
}

// Reload re-reads the config file and applies it. Also the SIGHUP path.
func (d *Daemon) Reload() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	d.loop.PostWait(func() {
		d.applyConfig(cfg)
	})
	return nil
}

// applyConfig swaps the configuration across all components. Runs on
// the loop.
func (d *Daemon) applyConfig(cfg *config.Config) {
	d.ungrabTriggers()
	d.cfg = cfg

	cache := action.NewCache(cfg.Actions, cfg.Cycle.ReverseOnShift)
	d.keys.Rebind(cache, cfg.TriggerKeys)
	d.keys.SetDeferredKeys(cfg.DeferKeys)
	d.mouse.Reconfigure(cfg.MiddleClick.Enabled, middleClickDelay(cfg))
	d.sess.SetConfig(cfg)
	d.eng.SetConfig(cfg)
	d.stashMgr.SetConfig(cfg)

	d.grabTriggers(cfg.TriggerKeys)
	d.syncMiddleGrab(cfg.MiddleClick.Enabled)

	d.logger.Info("configuration reloaded",
		"trigger", cfg.TriggerKeys.String(),
		"actions", len(cfg.Actions))
}

func (d *Daemon) watchConfig(ctx context.Context) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		d.logger.Warn("config watching disabled", "error", err)
		return
	}
	w, err := config.NewWatcher(path, d.logger)
	if err != nil {
		d.logger.Warn("config watching disabled", "error", err)
		return
	}
	go w.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cfg, ok := <-w.Changes():
				if !ok {
					return
				}
				d.loop.Post(func() {
					d.applyConfig(cfg)
				})
			}
		}
	}()
}

// onKey runs on the X event goroutine.
func (d *Daemon) onKey(name string, press bool) {
	d.loop.Post(func() {
		d.keys.HandleKey(trigger.KeyEvent{Key: action.Key(name), Press: press})
		d.syncSessionGrabs()
	})
}

// onButton runs on the X event goroutine.
func (d *Daemon) onButton(button int, press bool) {
	d.loop.Post(func() {
		if button == trigger.ButtonLeft && press && d.sess.Active() {
			// A click during an open session confirms the hovered action
			// without advancing its cycle.
			d.sess.ConfirmClick()
			return
		}
		d.mouse.HandleButton(button, press)
		d.syncSessionGrabs()
	})
}

// syncSessionGrabs holds the whole keyboard and the left button only
// while a session is open, so Escape and the confirm click reach the
// daemon without permanently stealing them from clients.
func (d *Daemon) syncSessionGrabs() {
	active := d.sess.Active()
	if active && !d.keyboardGrabbed {
		if err := d.conn.GrabKeyboard(); err != nil {
			d.logger.Warn("keyboard grab failed", "error", err)
		} else {
			d.keyboardGrabbed = true
		}
		if err := d.conn.GrabButton(trigger.ButtonLeft); err == nil {
			d.leftGrabbed = true
		}
		return
	}
	if !active && d.keyboardGrabbed {
		d.conn.UngrabKeyboard()
		d.keyboardGrabbed = false
		if d.leftGrabbed {
			d.conn.UngrabButton(trigger.ButtonLeft)
			d.leftGrabbed = false
		}
		d.hasLastPointer = false
	}
}

func (d *Daemon) pollPointer(ctx context.Context) {
	ticker := time.NewTicker(pointerPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.loop.Post(d.pointerTick)
	}
}

// pointerTick runs on the loop. Skips the X round-trip entirely when
// nothing cares about the pointer.
func (d *Daemon) pointerTick() {
	sessionOpen := d.sess.Active()
	if !sessionOpen && !d.stashMgr.HasStashes() {
		return
	}

	p, err := d.backend.PointerPosition()
	if err != nil {
		return
	}

	if sessionOpen {
		if d.hasLastPointer && p != d.lastPointer {
			d.keys.PointerMoved()
		}
		d.sess.PointerMoved(p)
	}
	d.lastPointer, d.hasLastPointer = p, true

	if d.stashMgr.HasStashes() {
		d.stashMgr.PointerMoved(p)
		d.trackRevealedFrames()
	}
}

// trackRevealedFrames watches revealed windows for user drags; a window
// dragged away from its slot leaves the stash.
func (d *Daemon) trackRevealedFrames() {
	for _, e := range d.stashMgr.Entries() {
		if e.State != stash.StateRevealed {
			continue
		}
		if r, err := d.backend.WindowRect(e.Window); err == nil {
			d.stashMgr.NotifyFrameChanged(e.Window, geometry.FromPlatform(r))
		}
	}
}

func (d *Daemon) pollDesktop(ctx context.Context) {
	ticker := time.NewTicker(desktopPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.loop.Post(func() {
			cur, err := d.backend.CurrentDesktop()
			if err != nil || cur == d.desktop {
				return
			}
			d.desktop = cur
			d.stashMgr.DesktopChanged()
		})
	}
}

func (d *Daemon) grabTriggers(keys action.KeySet) {
	for _, k := range keys.Sorted() {
		if err := d.conn.GrabKey(string(k)); err != nil {
			d.logger.Warn("trigger key grab failed", "key", string(k), "error", err)
			continue
		}
		d.grabbedTriggers = append(d.grabbedTriggers, k)
	}
}

func (d *Daemon) ungrabTriggers() {
	for _, k := range d.grabbedTriggers {
		d.conn.UngrabKey(string(k))
	}
	d.grabbedTriggers = nil
}

func (d *Daemon) syncMiddleGrab(enabled bool) {
	if enabled && !d.middleGrabbed {
		if err := d.conn.GrabButton(trigger.ButtonMiddle); err != nil {
			d.logger.Warn("middle button grab failed", "error", err)
			return
		}
		d.middleGrabbed = true
	}
	if !enabled && d.middleGrabbed {
		if err := d.conn.UngrabButton(trigger.ButtonMiddle); err == nil {
			d.middleGrabbed = false
		}
	}
}

func middleClickDelay(cfg *config.Config) time.Duration {
	return time.Duration(cfg.MiddleClick.DelayMS) * time.Millisecond
}

// systemReservedChords lists chords that belong to the desktop; hitting
// one during a session closes it and lets the shortcut through.
func systemReservedChords() []action.KeySet {
	return []action.KeySet{
		action.NewKeySet("alt", "tab"),
		action.NewKeySet("ctrl", "alt", "tab"),
	}
}
