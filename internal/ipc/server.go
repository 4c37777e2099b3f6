package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/maximize"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/window"
	"github.com/1broseidon/tilewm/internal/wm"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// Doer runs a closure on the engine goroutine. *wm.Loop implements it.
type Doer interface {
	Do(ctx context.Context, fn func(*wm.Engine) error) error
}

// ServerConfig configures an IPC server.
type ServerConfig struct {
	SocketPath  string
	SessionPath string
	// RequestTimeout bounds how long one request may wait for the engine.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath  string
	sessionPath string
	timeout     time.Duration
	loop        Doer
	logger      *slog.Logger
	startTime   time.Time

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig, loop Doer) (*Server, error) {
	if cfg.SocketPath == "" {
		return nil, errors.New("ipc: socket path is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath:  cfg.SocketPath,
		sessionPath: cfg.SessionPath,
		timeout:     timeout,
		loop:        loop,
		logger:      logger.With("package", "ipc"),
		startTime:   time.Now(),
		ready:       make(chan struct{}),
	}, nil
}

func (s *Server) String() string { return "ipc" }

// Ready is closed once the socket is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Serve listens on the socket until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
	s.mu.Unlock()

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	defer os.Remove(s.socketPath)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		resp = s.Handle(ctx, req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("Failed to send response", "error", err)
	}
}

// Handle processes one request and returns its response. It is exported
// so in-process callers can skip the socket.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	logger := s.logger.With("request_id", req.ID, "command", req.Command)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.dispatch(ctx, req)
	var resp *Response
	if err != nil {
		logger.Info("IPC request failed", "error", err, "elapsed", time.Since(start))
		resp = NewErrorResponse(err.Error())
	} else {
		resp, err = NewOKResponse(data)
		if err != nil {
			resp = NewErrorResponse(err.Error())
		}
		logger.Debug("IPC request handled", "elapsed", time.Since(start))
	}
	resp.ID = req.ID
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *Request) (any, error) {
	switch req.Command {
	case CommandPing:
		return nil, nil
	case CommandStatus:
		return s.status(ctx)
	case CommandListWindows:
		return s.listWindows(ctx)
	case CommandListWorkspaces:
		return s.listWorkspaces(ctx)
	case CommandMaximize:
		var p MaximizePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.maximize(ctx, p)
	case CommandUnmaximize, CommandShade, CommandUnshade, CommandIconify,
		CommandDeiconify, CommandFullscreen, CommandHideOthers, CommandSelect:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.windowOp(ctx, req.Command, p.Window)
	case CommandHideApp, CommandUnhideApp, CommandShowAll:
		var p AppPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.appOp(ctx, req.Command, p)
	case CommandWorkspaceNew, CommandWorkspaceDelete, CommandWorkspaceChange,
		CommandWorkspaceRelative, CommandWorkspaceRename, CommandMoveToWorkspace:
		var p WorkspacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return s.workspaceOp(ctx, req.Command, p)
	case CommandSessionSave:
		return s.saveSession(ctx)
	default:
		return nil, fmt.Errorf("Unknown command: %s", req.Command)
	}
}

// target resolves a client id, or the focused window for zero.
func target(e *wm.Engine, id uint32) (*wm.Screen, *window.Window, error) {
	var (
		s *wm.Screen
		w *window.Window
	)
	if id == 0 {
		s, w = e.Active()
	} else {
		s, w = e.FindClient(platform.WindowID(id))
	}
	if w == nil {
		if id == 0 {
			return nil, nil, fmt.Errorf("no focused window: %w", wm.ErrUnknownWindow)
		}
		return nil, nil, fmt.Errorf("window %d: %w", id, wm.ErrUnknownWindow)
	}
	return s, w, nil
}

// currentScreen is the screen holding focus, or the pointer's screen.
func currentScreen(e *wm.Engine) (*wm.Screen, error) {
	if s, _ := e.Active(); s != nil {
		return s, nil
	}
	if s := e.Screen(e.OldScreen()); s != nil {
		return s, nil
	}
	return nil, wm.ErrNoScreen
}

func (s *Server) status(ctx context.Context) (any, error) {
	var data StatusData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		data.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
		data.Screens = len(e.Screens())
		for _, sc := range e.Screens() {
			data.Heads += sc.Heads().Count()
			data.Windows += sc.Windows().Len()
		}
		sc, err := currentScreen(e)
		if err != nil {
			return nil
		}
		data.Workspace = sc.Current()
		data.Workspaces = sc.Workspaces().Len()
		if ws := sc.Workspaces().Get(sc.Current()); ws != nil {
			data.WorkspaceName = ws.Name
		}
		if w := sc.Focused(); w != nil {
			data.Focused = uint32(w.Client)
		}
		return nil
	})
	return data, err
}

func (s *Server) listWindows(ctx context.Context) (any, error) {
	data := WindowsData{Windows: []wm.WindowInfo{}}
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		for _, sc := range e.Screens() {
			data.Windows = append(data.Windows, sc.WindowInfos()...)
		}
		return nil
	})
	return data, err
}

func (s *Server) listWorkspaces(ctx context.Context) (any, error) {
	var data WorkspacesData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		sc, err := currentScreen(e)
		if err != nil {
			return err
		}
		data.Workspaces = sc.WorkspaceInfos()
		return nil
	})
	return data, err
}

func (s *Server) maximize(ctx context.Context, p MaximizePayload) (any, error) {
	if len(p.Directions) == 0 {
		return nil, errors.New("directions is required")
	}
	var flags window.MaxFlags
	for _, d := range p.Directions {
		f, err := window.ParseMaxFlags(d)
		if err != nil {
			return nil, err
		}
		flags |= f
	}
	return s.transition(ctx, p.Window, func(sc *wm.Screen, h window.Handle) bool {
		return sc.Maximize(h, flags, maximize.Hints{Keyboard: p.Keyboard})
	})
}

func (s *Server) windowOp(ctx context.Context, cmd CommandType, id uint32) (any, error) {
	return s.transition(ctx, id, func(sc *wm.Screen, h window.Handle) bool {
		switch cmd {
		case CommandUnmaximize:
			return sc.Unmaximize(h)
		case CommandShade:
			return sc.Shade(h)
		case CommandUnshade:
			return sc.Unshade(h)
		case CommandIconify:
			return sc.Iconify(h)
		case CommandDeiconify:
			return sc.Deiconify(h)
		case CommandFullscreen:
			return sc.ToggleFullscreen(h)
		case CommandHideOthers:
			return sc.HideOthers(h)
		case CommandSelect:
			return sc.MakeVisible(h)
		}
		return false
	})
}

// transition runs op on the target window and reports the outcome along
// with the window's state afterwards.
func (s *Server) transition(ctx context.Context, id uint32, op func(*wm.Screen, window.Handle) bool) (any, error) {
	var data ResultData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		sc, w, err := target(e, id)
		if err != nil {
			return err
		}
		h := w.Handle
		data.Applied = op(sc, h)
		for _, info := range sc.WindowInfos() {
			if info.Handle == h {
				info := info
				data.Window = &info
				break
			}
		}
		return nil
	})
	return data, err
}

func (s *Server) appOp(ctx context.Context, cmd CommandType, p AppPayload) (any, error) {
	var data ResultData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		if cmd == CommandShowAll {
			sc, err := currentScreen(e)
			if err != nil {
				return err
			}
			sc.ShowAll()
			data.Applied = true
			return nil
		}
		sc, err := currentScreen(e)
		if err != nil {
			return err
		}
		name := p.App
		if name == "" {
			_, w, err := target(e, 0)
			if err != nil {
				return err
			}
			name = w.App
		}
		if name == "" {
			return errors.New("app is required")
		}
		switch cmd {
		case CommandHideApp:
			data.Applied = sc.HideApplication(name)
		case CommandUnhideApp:
			data.Applied = sc.UnhideApplication(name, p.Miniwindows, p.BringToCurrent)
		}
		return nil
	})
	return data, err
}

func (s *Server) workspaceOp(ctx context.Context, cmd CommandType, p WorkspacePayload) (any, error) {
	var data WorkspaceData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		sc, err := currentScreen(e)
		if err != nil {
			return err
		}
		lookup := func() (int, error) {
			if p.Workspace == "" {
				return -1, errors.New("workspace is required")
			}
			return sc.LookupWorkspace(p.Workspace)
		}
		switch cmd {
		case CommandWorkspaceNew:
			idx, err := sc.NewWorkspace()
			if err != nil {
				return err
			}
			data.Index = idx
		case CommandWorkspaceDelete:
			idx := sc.Workspaces().Len() - 1
			if p.Workspace != "" {
				if idx, err = sc.LookupWorkspace(p.Workspace); err != nil {
					return err
				}
			}
			if err := sc.DeleteWorkspace(idx); err != nil {
				return err
			}
			data.Index = sc.Current()
		case CommandWorkspaceChange:
			idx, err := lookup()
			if err != nil {
				return err
			}
			sc.Change(idx)
			data.Index = sc.Current()
		case CommandWorkspaceRelative:
			if p.Amount == 0 {
				return errors.New("amount must be non-zero")
			}
			sc.RelativeChange(p.Amount)
			data.Index = sc.Current()
		case CommandWorkspaceRename:
			idx := sc.Current()
			if p.Workspace != "" {
				if idx, err = sc.LookupWorkspace(p.Workspace); err != nil {
					return err
				}
			}
			if _, err := sc.RenameWorkspace(idx, p.Name); err != nil {
				return err
			}
			data.Index = idx
		case CommandMoveToWorkspace:
			ws := sc.Workspaces().Lookup(p.Workspace)
			if p.Workspace == "" || ws < 0 {
				return fmt.Errorf("workspace %q: %w", p.Workspace, workspace.ErrInvalidIndex)
			}
			wsc, w, err := target(e, p.Window)
			if err != nil {
				return err
			}
			if !wsc.MoveToWorkspace(w.Handle, ws) {
				return fmt.Errorf("move to workspace %d: %w", ws+1, wm.ErrRejected)
			}
			sc = wsc
			data.Index = ws
		}
		if ws := sc.Workspaces().Get(data.Index); ws != nil {
			data.Name = ws.Name
		}
		return nil
	})
	return data, err
}

// saveSession writes the session document of the first screen.
func (s *Server) saveSession(ctx context.Context) (any, error) {
	if s.sessionPath == "" {
		return nil, errors.New("no session path configured")
	}
	var data SessionData
	err := s.loop.Do(ctx, func(e *wm.Engine) error {
		doc := e.SaveSessions()
		if doc == nil {
			return wm.ErrNoScreen
		}
		if err := workspace.WriteSession(s.sessionPath, doc); err != nil {
			return err
		}
		data = SessionData{Path: s.sessionPath, Workspaces: len(doc.Workspaces)}
		return nil
	})
	return data, err
}
