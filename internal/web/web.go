package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"agi-console/internal/console"
	"agi-console/internal/gauge"
	"agi-console/internal/state"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for simplicity
	},
}

// Options configures a Server.
type Options struct {
	Port     string
	Version  string
	Asker    console.Asker
	AppState *state.AppState
	Charts   *gauge.Registry
}

// Server serves the page, the live-session websocket and the API endpoints.
type Server struct {
	appState *state.AppState
	asker    console.Asker
	charts   *gauge.Registry
	port     string
	version  string

	// baseCtx bounds outbound assistant calls; cancelled on Shutdown.
	baseCtx context.Context
	cancel  context.CancelFunc

	clients   map[*websocket.Conn]*console.Session
	clientsMu sync.RWMutex
	wg        sync.WaitGroup

	httpServer *http.Server
}

// New creates a new web server.
func New(opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	charts := opts.Charts
	if charts == nil {
		charts = gauge.NewRegistry(0, 0)
	}
	return &Server{
		appState: opts.AppState,
		asker:    opts.Asker,
		charts:   charts,
		port:     opts.Port,
		version:  opts.Version,
		baseCtx:  ctx,
		cancel:   cancel,
		clients:  make(map[*websocket.Conn]*console.Session),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", s.handleWebSocket)

	// API endpoints
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/healthz", s.handleHealth)

	// Serve the UI
	mux.HandleFunc("/", s.handleUI)

	return mux
}

// Start starts the web server in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%s", s.port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Web UI listening", "address", addr, "component", "Web")

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web server failed", "error", err, "component", "Web")
		}
	}()
}

// Shutdown stops accepting requests, disconnects every live session and
// waits for their cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	// Hijacked websocket connections are not tracked by http.Server.
	s.clientsMu.RLock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clientsMu.RUnlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	s.cancel()
	return err
}

// ActiveSessions returns the number of connected pages.
func (s *Server) ActiveSessions() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
