package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowInfo is the metadata the daemon needs per top-level window.
type WindowInfo struct {
	ID    uint32
	PID   int
	Class string
	Title string
	X     int
	Y     int
	W     int
	H     int
}

// MoveResizeWindow moves and resizes a window to the specified
// geometry, dropping any maximized state first.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized window ignores configure requests in most WMs.
	c.unmaximizeWindow(windowID)

	win := xwindow.New(c.XUtil, windowID)

	// EWMH MoveResize has the best WM compatibility; fall back to a
	// direct configure when the WM doesn't support it.
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		win.MoveResize(x, y, width, height)
	}
	return nil
}

// GetWindowGeometry returns a window's frame in root coordinates.
func (c *Connection) GetWindowGeometry(windowID xproto.Window) (x, y, w, h int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// GetActiveWindow returns the focused top-level window.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// GetWindowInfo collects class, title, pid and geometry for a window.
func (c *Connection) GetWindowInfo(windowID xproto.Window) (WindowInfo, error) {
	x, y, w, h, err := c.GetWindowGeometry(windowID)
	if err != nil {
		return WindowInfo{}, err
	}
	info := WindowInfo{ID: uint32(windowID), X: x, Y: y, W: w, H: h}
	if class, err := icccm.WmClassGet(c.XUtil, windowID); err == nil {
		info.Class = class.Class
	}
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		info.Title = title
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
		info.PID = int(pid)
	}
	return info, nil
}

// ListStackedWindows returns normal application windows in
// bottom-to-top z-order from _NET_CLIENT_LIST_STACKING.
func (c *Connection) ListStackedWindows() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		// Some WMs only maintain the unstacked list.
		clients, err = ewmh.ClientListGet(c.XUtil)
		if err != nil {
			return nil, fmt.Errorf("failed to get client list: %w", err)
		}
	}

	out := make([]WindowInfo, 0, len(clients))
	for _, win := range clients {
		if !c.IsNormalWindow(win) {
			continue
		}
		info, err := c.GetWindowInfo(win)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// IsNormalWindow checks whether a window is a regular application
// window rather than a dock, desktop or notification surface.
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}
	return len(types) == 0
}

// SetFullscreen adds or removes _NET_WM_STATE_FULLSCREEN.
func (c *Connection) SetFullscreen(windowID xproto.Window, on bool) error {
	op := 0 // remove
	if on {
		op = 1 // add
	}
	return ewmh.WmStateReq(c.XUtil, windowID, op, "_NET_WM_STATE_FULLSCREEN")
}

// IsFullscreen reports whether the window carries the fullscreen state.
func (c *Connection) IsFullscreen(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_FULLSCREEN" {
			return true, nil
		}
	}
	return false, nil
}

// MaximizeWindow asks the window manager to maximize the window both
// ways, letting the WM apply its own notion of the work area.
func (c *Connection) MaximizeWindow(windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_VERT")
}

// unmaximizeWindow removes maximized state from a window.
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}
}

// MinimizeWindow iconifies a window via WM_CHANGE_STATE per ICCCM.
func (c *Connection) MinimizeWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_CHANGE_STATE: %w", err)
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// UnminimizeWindow maps an iconified window back onto the screen.
func (c *Connection) UnminimizeWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// IsMinimized reports whether the window is iconified, via
// _NET_WM_STATE_HIDDEN.
func (c *Connection) IsMinimized(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true, nil
		}
	}
	return false, nil
}

// IsResizable inspects WM_NORMAL_HINTS: a window whose minimum and
// maximum sizes coincide cannot be resized, only moved.
func (c *Connection) IsResizable(windowID xproto.Window) (bool, error) {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		// No hints means no constraint.
		return true, nil
	}
	const (
		pMinSize = 16 // PMinSize flag
		pMaxSize = 32 // PMaxSize flag
	)
	hasMin := hints.Flags&pMinSize != 0
	hasMax := hints.Flags&pMaxSize != 0
	if hasMin && hasMax &&
		hints.MinWidth == hints.MaxWidth && hints.MinHeight == hints.MaxHeight {
		return false, nil
	}
	return true, nil
}

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}
