package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/slate/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// ListActions retrieves the configured action bindings.
func (c *Client) ListActions() (*ActionsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListActions})
	if err != nil {
		return nil, err
	}

	var data ActionsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse actions data: %w", err)
	}

	return &data, nil
}

// ApplyAction applies a named action to a window (0 targets the active
// window).
func (c *Client) ApplyAction(actionName string, windowID uint32) error {
	payload, err := json.Marshal(ApplyActionPayload{
		ActionName: actionName,
		WindowID:   windowID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal apply payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandApplyAction,
		Payload: payload,
	})
	return err
}

// Undo walks a window back one step in its frame history (0 targets the
// active window).
func (c *Client) Undo(windowID uint32) error {
	payload, err := json.Marshal(WindowPayload{WindowID: windowID})
	if err != nil {
		return fmt.Errorf("failed to marshal undo payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandUndo,
		Payload: payload,
	})
	return err
}

// ListWindows retrieves all managed windows in stacking order.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}

	return &data, nil
}

// ListStashed retrieves the currently stashed windows.
func (c *Client) ListStashed() (*StashedData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListStashed})
	if err != nil {
		return nil, err
	}

	var data StashedData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse stashed data: %w", err)
	}

	return &data, nil
}

// Unstash restores a stashed window to its pre-stash frame.
func (c *Client) Unstash(windowID uint32) error {
	payload, err := json.Marshal(WindowPayload{WindowID: windowID})
	if err != nil {
		return fmt.Errorf("failed to marshal unstash payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandUnstash,
		Payload: payload,
	})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
