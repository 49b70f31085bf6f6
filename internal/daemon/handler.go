package daemon

import (
	"fmt"
	"strings"

	"github.com/1broseidon/slate/internal/action"
	"github.com/1broseidon/slate/internal/ipc"
	"github.com/1broseidon/slate/internal/platform"
)

// The daemon implements ipc.Handler. Handlers run on IPC connection
// goroutines and bridge onto the dispatch loop with PostWait wherever
// they touch loop-confined state. Plain window-system reads go straight
// to the backend; the X connection serializes its own requests.

func (d *Daemon) Status() ipc.StatusData {
	var s ipc.StatusData
	d.loop.PostWait(func() {
		s.SessionActive = d.sess.Active()
		s.ActionCount = len(d.cfg.Actions)
		s.StashedCount = len(d.stashMgr.Entries())
		s.UsageCount = d.stashMgr.UsageCount()
	})
	s.DisplayFound = true
	return s
}

func (d *Daemon) Monitors() ([]ipc.MonitorInfo, error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return nil, err
	}
	out := make([]ipc.MonitorInfo, len(displays))
	for i, disp := range displays {
		out[i] = ipc.MonitorInfo{
			ID:         disp.ID,
			Name:       disp.Name,
			X:          disp.Bounds.X,
			Y:          disp.Bounds.Y,
			Width:      disp.Bounds.Width,
			Height:     disp.Bounds.Height,
			WorkX:      disp.Usable.X,
			WorkY:      disp.Usable.Y,
			WorkWidth:  disp.Usable.Width,
			WorkHeight: disp.Usable.Height,
		}
	}
	return out, nil
}

func (d *Daemon) ListActions() []ipc.ActionInfo {
	var out []ipc.ActionInfo
	d.loop.PostWait(func() {
		for i := range d.cfg.Actions {
			a := &d.cfg.Actions[i]
			out = append(out, ipc.ActionInfo{
				Name:      a.DisplayName(),
				Direction: string(a.Direction),
				Keybind:   a.Keybind.Canonical(),
				CycleSize: len(a.Cycle),
			})
		}
	})
	return out
}

func (d *Daemon) ApplyAction(name string, windowID uint32) error {
	id, err := d.targetWindow(windowID)
	if err != nil {
		return err
	}

	var applyErr error
	d.loop.PostWait(func() {
		a := d.findAction(name)
		if a == nil {
			applyErr = fmt.Errorf("unknown action %q", name)
			return
		}
		// A cycle invoked by name starts at its first member; cycling
		// only makes sense inside an interactive session.
		if a.Direction == action.Cycle && len(a.Cycle) > 0 {
			a = &a.Cycle[0]
		}
		if d.stashMgr.Claim(id, a) {
			return
		}
		screen, err := d.displayFor(id)
		if err != nil {
			applyErr = err
			return
		}
		applyErr = d.eng.Apply(id, a, screen, true)
	})
	return applyErr
}

func (d *Daemon) Undo(windowID uint32) error {
	id, err := d.targetWindow(windowID)
	if err != nil {
		return err
	}

	var applyErr error
	d.loop.PostWait(func() {
		screen, err := d.displayFor(id)
		if err != nil {
			applyErr = err
			return
		}
		undo := action.New(action.Undo)
		applyErr = d.eng.Apply(id, &undo, screen, true)
	})
	return applyErr
}

func (d *Daemon) ListWindows() ([]ipc.WindowData, error) {
	windows, err := d.backend.ListWindowsStacked()
	if err != nil {
		return nil, err
	}
	out := make([]ipc.WindowData, len(windows))
	for i, w := range windows {
		out[i] = ipc.WindowData{
			ID:     uint32(w.ID),
			Class:  w.AppID,
			Title:  w.Title,
			X:      w.Bounds.X,
			Y:      w.Bounds.Y,
			Width:  w.Bounds.Width,
			Height: w.Bounds.Height,
		}
	}
	return out, nil
}

func (d *Daemon) ListStashed() []ipc.StashedInfo {
	var entries []ipc.StashedInfo
	d.loop.PostWait(func() {
		for _, e := range d.stashMgr.Entries() {
			entries = append(entries, ipc.StashedInfo{
				WindowID: uint32(e.Window),
				Edge:     string(e.Edge),
				State:    string(e.State),
				ScreenID: e.ScreenID,
				Desktop:  e.Desktop,
			})
		}
	})
	// Titles come from the window system, outside the loop.
	for i := range entries {
		if info, err := d.backend.WindowInfo(platform.WindowID(entries[i].WindowID)); err == nil {
			entries[i].Title = info.Title
		}
	}
	return entries
}

func (d *Daemon) Unstash(windowID uint32) error {
	id, err := d.targetWindow(windowID)
	if err != nil {
		return err
	}
	var unstashErr error
	d.loop.PostWait(func() {
		unstashErr = d.stashMgr.Unstash(id)
	})
	return unstashErr
}

func (d *Daemon) targetWindow(windowID uint32) (platform.WindowID, error) {
	if windowID != 0 {
		return platform.WindowID(windowID), nil
	}
	return d.backend.ActiveWindow()
}

// findAction matches by display name first, then direction tag. Runs on
// the loop.
func (d *Daemon) findAction(name string) *action.Action {
	for i := range d.cfg.Actions {
		a := &d.cfg.Actions[i]
		if strings.EqualFold(a.DisplayName(), name) {
			return a
		}
	}
	for i := range d.cfg.Actions {
		a := &d.cfg.Actions[i]
		if strings.EqualFold(string(a.Direction), name) {
			return a
		}
	}
	return nil
}

// displayFor returns the display holding the window's center, falling
// back to the active display.
func (d *Daemon) displayFor(id platform.WindowID) (platform.Display, error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return platform.Display{}, err
	}
	if rect, err := d.backend.WindowRect(id); err == nil {
		cx := rect.X + rect.Width/2
		cy := rect.Y + rect.Height/2
		for _, disp := range displays {
			if disp.Bounds.Contains(cx, cy) {
				return disp, nil
			}
		}
	}
	return d.backend.ActiveDisplay()
}
