package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandListActions CommandType = "LIST_ACTIONS"
	CommandApplyAction CommandType = "APPLY_ACTION"
	CommandUndo        CommandType = "UNDO"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandListStashed CommandType = "LIST_STASHED"
	CommandUnstash     CommandType = "UNSTASH"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool  `json:"daemon_running"`
	DisplayFound  bool  `json:"display_found"`
	SessionActive bool  `json:"session_active"`
	ActionCount   int   `json:"action_count"`
	StashedCount  int   `json:"stashed_count"`
	UsageCount    int   `json:"usage_count"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// MonitorInfo represents information about a single monitor
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

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// ActionInfo is one configured action binding.
type ActionInfo struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Keybind   string `json:"keybind,omitempty"`
	CycleSize int    `json:"cycle_size,omitempty"`
}

// ActionsData represents the data returned by LIST_ACTIONS
type ActionsData struct {
	Actions []ActionInfo `json:"actions"`
}

// WindowData describes one managed window.
type WindowData struct {
	ID     uint32 `json:"id"`
	Class  string `json:"class"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowData `json:"windows"`
}

// StashedInfo describes one stashed window.
type StashedInfo struct {
	WindowID uint32 `json:"window_id"`
	Title    string `json:"title"`
	Edge     string `json:"edge"`
	State    string `json:"state"`
	ScreenID int    `json:"screen_id"`
	Desktop  int    `json:"desktop"`
}

// StashedData represents the data returned by LIST_STASHED
type StashedData struct {
	Stashed []StashedInfo `json:"stashed"`
}

// ApplyActionPayload represents the payload for APPLY_ACTION.
// WindowID 0 targets the active window.
type ApplyActionPayload struct {
	ActionName string `json:"action_name"`
	WindowID   uint32 `json:"window_id,omitempty"`
}

// WindowPayload carries a single window target (UNDO, UNSTASH).
type WindowPayload struct {
	WindowID uint32 `json:"window_id,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
