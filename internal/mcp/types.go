package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID     uint32 `json:"id"`
	Class  string `json:"class"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// ListActionsInput is the input for the list_actions tool.
type ListActionsInput struct{}

// ActionInfo describes one configured action binding.
type ActionInfo struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Keybind   string `json:"keybind,omitempty"`
	CycleSize int    `json:"cycle_size,omitempty"`
}

// ListActionsOutput is the output for the list_actions tool.
type ListActionsOutput struct {
	Actions []ActionInfo `json:"actions"`
}

// ApplyActionInput is the input for the apply_action tool.
type ApplyActionInput struct {
	Action   string `json:"action" jsonschema:"required,Action name or direction tag (e.g. left-half, maximize, center)"`
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"Target window id from list_windows (default: the active window)"`
}

// ApplyActionOutput is the output for the apply_action tool.
type ApplyActionOutput struct {
	Applied bool   `json:"applied"`
	Action  string `json:"action"`
}

// UndoWindowInput is the input for the undo_window tool.
type UndoWindowInput struct {
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"Target window id from list_windows (default: the active window)"`
}

// UndoWindowOutput is the output for the undo_window tool.
type UndoWindowOutput struct {
	Undone bool `json:"undone"`
}

// ListStashedInput is the input for the list_stashed tool.
type ListStashedInput struct{}

// StashedInfo describes one stashed window.
type StashedInfo struct {
	WindowID uint32 `json:"window_id"`
	Title    string `json:"title"`
	Edge     string `json:"edge"`
	State    string `json:"state"`
	ScreenID int    `json:"screen_id"`
}

// ListStashedOutput is the output for the list_stashed tool.
type ListStashedOutput struct {
	Stashed []StashedInfo `json:"stashed"`
}

// UnstashWindowInput is the input for the unstash_window tool.
type UnstashWindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Window id from list_stashed"`
}

// UnstashWindowOutput is the output for the unstash_window tool.
type UnstashWindowOutput struct {
	Restored bool `json:"restored"`
}

// GetMonitorsInput is the input for the get_monitors tool.
type GetMonitorsInput struct{}

// MonitorInfo describes one display with its usable work area.
type MonitorInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	WorkX      int    `json:"work_x"`
	WorkY      int    `json:"work_y"`
	WorkWidth  int    `json:"work_width"`
	WorkHeight int    `json:"work_height"`
}

// GetMonitorsOutput is the output for the get_monitors tool.
type GetMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}
