// Package mcp exposes the window-action daemon to MCP clients. Every
// tool is a thin typed wrapper over the IPC protocol; the daemon stays
// the single owner of all window state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/slate/internal/ipc"
)

const (
	ServerName    = "slate"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for window control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server talking to the local daemon.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all managed windows in stacking order (bottom to top) with their class, title and frame.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List the configured window actions with their direction tags and keybinds. Use the name or direction with apply_action.",
	}, s.handleListActions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_action",
		Description: "Apply a window action (e.g. left-half, maximize, center, stash) to a window. Targets the active window unless window_id is given.",
	}, s.handleApplyAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "undo_window",
		Description: "Walk a window back one step in its frame history. Targets the active window unless window_id is given.",
	}, s.handleUndoWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_stashed",
		Description: "List windows currently stashed at screen edges, with their edge and hidden/revealed state.",
	}, s.handleListStashed)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unstash_window",
		Description: "Restore a stashed window to its pre-stash frame.",
	}, s.handleUnstashWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_monitors",
		Description: "List connected monitors with full geometry and the usable work area after panels.",
	}, s.handleGetMonitors)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, len(data.Windows))}
	for i, w := range data.Windows {
		out.Windows[i] = WindowInfo{
			ID:     w.ID,
			Class:  w.Class,
			Title:  w.Title,
			X:      w.X,
			Y:      w.Y,
			Width:  w.Width,
			Height: w.Height,
		}
	}
	return nil, out, nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListActionsInput) (*mcpsdk.CallToolResult, ListActionsOutput, error) {
	data, err := s.client.ListActions()
	if err != nil {
		return nil, ListActionsOutput{}, err
	}

	out := ListActionsOutput{Actions: make([]ActionInfo, len(data.Actions))}
	for i, a := range data.Actions {
		out.Actions[i] = ActionInfo{
			Name:      a.Name,
			Direction: a.Direction,
			Keybind:   a.Keybind,
			CycleSize: a.CycleSize,
		}
	}
	return nil, out, nil
}

func (s *Server) handleApplyAction(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyActionInput) (*mcpsdk.CallToolResult, ApplyActionOutput, error) {
	if args.Action == "" {
		return nil, ApplyActionOutput{}, fmt.Errorf("action is required")
	}
	if err := s.client.ApplyAction(args.Action, args.WindowID); err != nil {
		return nil, ApplyActionOutput{}, err
	}
	return nil, ApplyActionOutput{Applied: true, Action: args.Action}, nil
}

func (s *Server) handleUndoWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UndoWindowInput) (*mcpsdk.CallToolResult, UndoWindowOutput, error) {
	if err := s.client.Undo(args.WindowID); err != nil {
		return nil, UndoWindowOutput{}, err
	}
	return nil, UndoWindowOutput{Undone: true}, nil
}

func (s *Server) handleListStashed(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListStashedInput) (*mcpsdk.CallToolResult, ListStashedOutput, error) {
	data, err := s.client.ListStashed()
	if err != nil {
		return nil, ListStashedOutput{}, err
	}

	out := ListStashedOutput{Stashed: make([]StashedInfo, len(data.Stashed))}
	for i, e := range data.Stashed {
		out.Stashed[i] = StashedInfo{
			WindowID: e.WindowID,
			Title:    e.Title,
			Edge:     e.Edge,
			State:    e.State,
			ScreenID: e.ScreenID,
		}
	}
	return nil, out, nil
}

func (s *Server) handleUnstashWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UnstashWindowInput) (*mcpsdk.CallToolResult, UnstashWindowOutput, error) {
	if args.WindowID == 0 {
		return nil, UnstashWindowOutput{}, fmt.Errorf("window_id is required")
	}
	if err := s.client.Unstash(args.WindowID); err != nil {
		return nil, UnstashWindowOutput{}, err
	}
	return nil, UnstashWindowOutput{Restored: true}, nil
}

func (s *Server) handleGetMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetMonitorsInput) (*mcpsdk.CallToolResult, GetMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, GetMonitorsOutput{}, err
	}

	out := GetMonitorsOutput{Monitors: make([]MonitorInfo, len(data.Monitors))}
	for i, m := range data.Monitors {
		out.Monitors[i] = MonitorInfo{
			ID:         m.ID,
			Name:       m.Name,
			X:          m.X,
			Y:          m.Y,
			Width:      m.Width,
			Height:     m.Height,
			WorkX:      m.WorkX,
			WorkY:      m.WorkY,
			WorkWidth:  m.WorkWidth,
			WorkHeight: m.WorkHeight,
		}
	}
	return nil, out, nil
}
