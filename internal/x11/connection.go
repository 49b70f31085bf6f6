// Package x11 wraps the X server operations the daemon needs: monitor
// enumeration with work areas, EWMH window manipulation, virtual
// desktop queries and the input grabs behind the trigger machinery.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X server and
// initializes the keybind machinery used for trigger grabs.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the X event loop (blocking). Handlers registered
// through this package run on the calling goroutine.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// StopEventLoop asks the event loop to exit.
func (c *Connection) StopEventLoop() {
	xevent.Quit(c.XUtil)
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Available reports whether an X server can be reached at all. The
// daemon polls this to stay dormant instead of failing when no display
// is present yet.
func Available() bool {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return false
	}
	xu.Conn().Close()
	return true
}
