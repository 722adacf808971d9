package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"osviz/visual"
)

// WebServer provides HTTP and WebSocket endpoints for visualization and
// control. It caches the latest frame per view so polling clients and
// late-joining WebSocket clients always see current state.
type WebServer struct {
	cfg       *Config
	dashboard *Dashboard

	mu     sync.RWMutex
	frames map[string]any

	commands CommandQueue
	hub      *wsHub
	server   *http.Server
}

// NewWebServer creates a new web server instance.
func NewWebServer(cfg *Config, dashboard *Dashboard) *WebServer {
	ws := &WebServer{
		cfg:       cfg,
		dashboard: dashboard,
		frames:    make(map[string]any),
		commands:  newChannelCommandQueue(10),
		hub:       newHub(),
	}
	ws.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: NewRouter(ws),
	}
	return ws
}

func (ws *WebServer) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/frame", ws.handleFrame)
	mux.HandleFunc("/api/control", ws.handleControl)
	mux.HandleFunc("/api/processes", ws.handleProcesses)
	mux.HandleFunc("/api/prediction", ws.handlePrediction)
	mux.HandleFunc("/api/files", ws.handleFiles)
	mux.HandleFunc("/api/config", ws.handleConfig)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.hub.handle(ws, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir("web/static")))
}

// Start starts the HTTP server in a goroutine.
func (ws *WebServer) Start() error {
	go func() {
		GetLogger().Infof("Web server listening at http://%s", ws.cfg.Addr)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			GetLogger().Errorf("Web server stopped: %v", err)
		}
	}()
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ws.server.Shutdown(shutdownCtx)
}

// UpdateFrame caches the latest frame for a view and broadcasts it to
// WebSocket clients.
func (ws *WebServer) UpdateFrame(view string, frame any) {
	ws.mu.Lock()
	ws.frames[view] = frame
	ws.mu.Unlock()
	ws.hub.broadcastFrame(view, frame)
}

// latestFrames returns a copy of the per-view frame cache for replay.
func (ws *WebServer) latestFrames() map[string]any {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make(map[string]any, len(ws.frames))
	for view, frame := range ws.frames {
		out[view] = frame
	}
	return out
}

// NextCommand returns the next control command if available, non-blocking.
func (ws *WebServer) NextCommand() (visual.ControlCommand, bool) {
	return ws.commands.TryDequeue()
}

// WaitCommand blocks until a command arrives or ctx is cancelled.
func (ws *WebServer) WaitCommand(ctx context.Context) (visual.ControlCommand, bool) {
	return ws.commands.Next(ctx)
}

func (ws *WebServer) queueCommand(cmd visual.ControlCommand) bool {
	return ws.commands.Enqueue(cmd)
}

type controlRequest struct {
	View string `json:"view"`
	Type string `json:"type"`
}

// processControlRequest validates a decoded control request and maps it to
// a command. Validation failures are client errors, never queued.
func (ws *WebServer) processControlRequest(req *controlRequest) (*visual.ControlCommand, error) {
	if !isKnownView(req.View) {
		return nil, fmt.Errorf("unknown view %q", req.View)
	}
	cmd := visual.ControlCommand{View: req.View}
	switch req.Type {
	case "run":
		cmd.Type = visual.CommandRun
	case "pause":
		cmd.Type = visual.CommandPause
	case "resume":
		cmd.Type = visual.CommandResume
	case "reset":
		cmd.Type = visual.CommandReset
	case "step":
		cmd.Type = visual.CommandStep
	default:
		return nil, fmt.Errorf("invalid command type %q", req.Type)
	}
	return &cmd, nil
}

func isKnownView(view string) bool {
	for _, v := range KnownViews {
		if v == view {
			return true
		}
	}
	return false
}
