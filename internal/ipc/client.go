package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilewm/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string { return c.socketPath }

// Send marshals payload, sends cmd and returns the response data.
func (c *Client) Send(cmd CommandType, payload any) (json.RawMessage, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
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

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func decodeData[T any](raw json.RawMessage, what string) (*T, error) {
	var out T
	if len(raw) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

// Ping checks that the daemon answers.
func (c *Client) Ping() error {
	_, err := c.Send(CommandPing, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	raw, err := c.Send(CommandStatus, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[StatusData](raw, "status")
}

// ListWindows retrieves managed windows, most recently focused first.
func (c *Client) ListWindows() (*WindowsData, error) {
	raw, err := c.Send(CommandListWindows, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[WindowsData](raw, "windows")
}

func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	raw, err := c.Send(CommandListWorkspaces, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[WorkspacesData](raw, "workspaces")
}

// Maximize asks for directions on a window (0 for the focused one).
func (c *Client) Maximize(win uint32, directions []string, keyboard bool) (*ResultData, error) {
	raw, err := c.Send(CommandMaximize, MaximizePayload{Window: win, Directions: directions, Keyboard: keyboard})
	if err != nil {
		return nil, err
	}
	return decodeData[ResultData](raw, "maximize")
}

// WindowCommand sends one of the single-window state commands: unmaximize,
// shade, unshade, iconify, deiconify, fullscreen and hide-others.
func (c *Client) WindowCommand(cmd CommandType, win uint32) (*ResultData, error) {
	raw, err := c.Send(cmd, WindowPayload{Window: win})
	if err != nil {
		return nil, err
	}
	return decodeData[ResultData](raw, string(cmd))
}

// AppCommand sends hide-app, unhide-app or show-all.
func (c *Client) AppCommand(cmd CommandType, p AppPayload) (*ResultData, error) {
	raw, err := c.Send(cmd, p)
	if err != nil {
		return nil, err
	}
	return decodeData[ResultData](raw, string(cmd))
}

// WorkspaceCommand sends one of the workspace commands.
func (c *Client) WorkspaceCommand(cmd CommandType, p WorkspacePayload) (*WorkspaceData, error) {
	raw, err := c.Send(cmd, p)
	if err != nil {
		return nil, err
	}
	return decodeData[WorkspaceData](raw, string(cmd))
}

// ChangeWorkspace switches to a workspace by 1-based number or name.
func (c *Client) ChangeWorkspace(ref string) (*WorkspaceData, error) {
	return c.WorkspaceCommand(CommandWorkspaceChange, WorkspacePayload{Workspace: ref})
}

// SaveSession asks the daemon to write its session document now.
func (c *Client) SaveSession() (*SessionData, error) {
	raw, err := c.Send(CommandSessionSave, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[SessionData](raw, "session")
}
