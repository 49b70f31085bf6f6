package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
}

// Point is a pointer position in root coordinates.
type Point struct {
	X int
	Y int
}

// Backend abstracts window-system operations across platforms.
//
// The core never assumes a specific OS API; everything it needs from the
// window system goes through this interface so the resolution and stash
// machinery stay testable with fakes.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	WindowInfo(windowID WindowID) (Window, error)
	// ListWindowsStacked returns normal windows in bottom-to-top z-order.
	ListWindowsStacked() ([]Window, error)
	WindowRect(windowID WindowID) (Rect, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Minimize(windowID WindowID) error
	Unminimize(windowID WindowID) error
	IsMinimized(windowID WindowID) (bool, error)
	SetFullscreen(windowID WindowID, on bool) error
	IsFullscreen(windowID WindowID) (bool, error)
	Maximize(windowID WindowID) error
	IsResizable(windowID WindowID) (bool, error)
	Activate(windowID WindowID) error
	HideApp(windowID WindowID) error
	PointerPosition() (Point, error)
	CurrentDesktop() (int, error)
	WindowDesktop(windowID WindowID) (int, error)
}
