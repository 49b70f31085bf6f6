package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// OnKeyEvents registers a callback for key transitions on the root
// window. Names are normalized to lowercase logical keys ("super",
// "shift", "up", "a"). The callback runs on the X event goroutine and
// must hand off immediately.
func (c *Connection) OnKeyEvents(cb func(name string, press bool)) {
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if name := normalizeKeyName(keybind.LookupString(xu, ev.State, ev.Detail)); name != "" {
			cb(name, true)
		}
	}).Connect(c.XUtil, c.Root)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		if name := normalizeKeyName(keybind.LookupString(xu, ev.State, ev.Detail)); name != "" {
			cb(name, false)
		}
	}).Connect(c.XUtil, c.Root)
}

// OnButtonEvents registers a callback for pointer-button transitions on
// the root window. Only grabbed buttons produce events.
func (c *Connection) OnButtonEvents(cb func(button int, press bool)) {
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		cb(int(ev.Detail), true)
	}).Connect(c.XUtil, c.Root)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		cb(int(ev.Detail), false)
	}).Connect(c.XUtil, c.Root)
}

// GrabKey passively grabs every keycode mapped to the logical key name
// with any modifier state, so its transitions reach the daemon while
// the rest of the keyboard stays with the focused client.
func (c *Connection) GrabKey(name string) error {
	var grabbed bool
	for _, xname := range xKeyNames(name) {
		keycodes := keybind.StrToKeycodes(c.XUtil, xname)
		for _, kc := range keycodes {
			if kc == 0 {
				continue
			}
			if err := keybind.GrabChecked(c.XUtil, c.Root, xproto.ModMaskAny, kc); err != nil {
				continue
			}
			grabbed = true
		}
	}
	if !grabbed {
		return fmt.Errorf("no grabbable keycode for key %q", name)
	}
	return nil
}

// UngrabKey releases the passive grabs for a logical key.
func (c *Connection) UngrabKey(name string) {
	for _, xname := range xKeyNames(name) {
		for _, kc := range keybind.StrToKeycodes(c.XUtil, xname) {
			if kc != 0 {
				keybind.Ungrab(c.XUtil, c.Root, xproto.ModMaskAny, kc)
			}
		}
	}
}

// GrabKeyboard takes the whole keyboard for the duration of a session,
// so every chord member and Escape reach the state machine.
func (c *Connection) GrabKeyboard() error {
	return keybind.GrabKeyboard(c.XUtil, c.Root)
}

// UngrabKeyboard returns the keyboard to the focused client.
func (c *Connection) UngrabKeyboard() {
	keybind.UngrabKeyboard(c.XUtil)
}

// GrabButton passively grabs a pointer button on the root window.
func (c *Connection) GrabButton(button byte) error {
	return xproto.GrabButtonChecked(
		c.XUtil.Conn(),
		true,
		c.Root,
		uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease),
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		xproto.WindowNone,
		xproto.CursorNone,
		button,
		xproto.ModMaskAny,
	).Check()
}

// UngrabButton releases a pointer-button grab.
func (c *Connection) UngrabButton(button byte) error {
	return xproto.UngrabButtonChecked(c.XUtil.Conn(), button, c.Root, xproto.ModMaskAny).Check()
}

// normalizeKeyName lowers an X keysym name to the logical key names the
// action layer uses. Left/right modifier variants collapse into one.
func normalizeKeyName(name string) string {
	name = strings.ToLower(name)
	switch name {
	case "super_l", "super_r":
		return "super"
	case "shift_l", "shift_r":
		return "shift"
	case "control_l", "control_r":
		return "ctrl"
	case "alt_l", "alt_r", "meta_l", "meta_r":
		return "alt"
	case "iso_level3_shift", "caps_lock", "num_lock":
		return ""
	case "prior":
		return "pageup"
	case "next":
		return "pagedown"
	}
	return name
}

// xKeyNames maps a logical key name back to the X keysym names to grab.
func xKeyNames(name string) []string {
	switch strings.ToLower(name) {
	case "super":
		return []string{"Super_L", "Super_R"}
	case "shift":
		return []string{"Shift_L", "Shift_R"}
	case "ctrl":
		return []string{"Control_L", "Control_R"}
	case "alt":
		return []string{"Alt_L", "Alt_R"}
	case "up":
		return []string{"Up"}
	case "down":
		return []string{"Down"}
	case "left":
		return []string{"Left"}
	case "right":
		return []string{"Right"}
	case "escape":
		return []string{"Escape"}
	case "return":
		return []string{"Return"}
	case "backspace":
		return []string{"BackSpace"}
	case "tab":
		return []string{"Tab"}
	case "pageup":
		return []string{"Prior"}
	case "pagedown":
		return []string{"Next"}
	}
	return []string{name}
}
