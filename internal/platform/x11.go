package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/slate/internal/x11"
)

// X11Backend implements Backend on top of an X server connection.
type X11Backend struct {
	conn *x11.Connection
}

// NewX11Backend wraps an established X connection.
func NewX11Backend(conn *x11.Connection) *X11Backend {
	return &X11Backend{conn: conn}
}

func (b *X11Backend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

func (b *X11Backend) ActiveDisplay() (Display, error) {
	mon, err := b.conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*mon), nil
}

func (b *X11Backend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return WindowID(win), nil
}

func (b *X11Backend) WindowInfo(windowID WindowID) (Window, error) {
	info, err := b.conn.GetWindowInfo(xproto.Window(windowID))
	if err != nil {
		return Window{}, err
	}
	return windowFromInfo(info), nil
}

func (b *X11Backend) ListWindowsStacked() ([]Window, error) {
	infos, err := b.conn.ListStackedWindows()
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(infos))
	for _, info := range infos {
		windows = append(windows, windowFromInfo(info))
	}
	return windows, nil
}

func (b *X11Backend) WindowRect(windowID WindowID) (Rect, error) {
	x, y, w, h, err := b.conn.GetWindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *X11Backend) MoveResize(windowID WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(windowID),
		bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *X11Backend) Minimize(windowID WindowID) error {
	return b.conn.MinimizeWindow(xproto.Window(windowID))
}

func (b *X11Backend) Unminimize(windowID WindowID) error {
	return b.conn.UnminimizeWindow(xproto.Window(windowID))
}

func (b *X11Backend) IsMinimized(windowID WindowID) (bool, error) {
	return b.conn.IsMinimized(xproto.Window(windowID))
}

func (b *X11Backend) SetFullscreen(windowID WindowID, on bool) error {
	return b.conn.SetFullscreen(xproto.Window(windowID), on)
}

func (b *X11Backend) IsFullscreen(windowID WindowID) (bool, error) {
	return b.conn.IsFullscreen(xproto.Window(windowID))
}

func (b *X11Backend) Maximize(windowID WindowID) error {
	return b.conn.MaximizeWindow(xproto.Window(windowID))
}

func (b *X11Backend) IsResizable(windowID WindowID) (bool, error) {
	return b.conn.IsResizable(xproto.Window(windowID))
}

func (b *X11Backend) Activate(windowID WindowID) error {
	return b.conn.FocusWindow(uint32(windowID))
}

func (b *X11Backend) HideApp(windowID WindowID) error {
	return b.conn.HideWindowGroup(xproto.Window(windowID))
}

func (b *X11Backend) PointerPosition() (Point, error) {
	x, y, err := b.conn.QueryPointer()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func (b *X11Backend) CurrentDesktop() (int, error) {
	return b.conn.GetCurrentDesktop()
}

func (b *X11Backend) WindowDesktop(windowID WindowID) (int, error) {
	return b.conn.GetWindowDesktop(uint32(windowID))
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X: m.X, Y: m.Y, Width: m.Width, Height: m.Height,
		},
		Usable: Rect{
			X: m.WorkX, Y: m.WorkY, Width: m.WorkWidth, Height: m.WorkHeight,
		},
	}
}

func windowFromInfo(info x11.WindowInfo) Window {
	return Window{
		ID:    WindowID(info.ID),
		PID:   info.PID,
		AppID: info.Class,
		Title: info.Title,
		Bounds: Rect{
			X: info.X, Y: info.Y, Width: info.W, Height: info.H,
		},
	}
}
