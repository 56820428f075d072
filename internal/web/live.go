package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"agi-console/internal/console"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// handleWebSocket mounts a live session for the connecting page. Events
// read from the socket are applied to the session; views are pushed back
// whenever the session changes. The session is unmounted on disconnect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "component", "Web")
		return
	}
	defer conn.Close()

	sess, err := console.NewSession(console.Options{
		ID:      uuid.NewString(),
		Asker:   s.asker,
		Charts:  s.charts,
		Context: s.baseCtx,
	})
	if err != nil {
		slog.Error("Session mount failed", "error", err, "component", "Web")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable"),
			time.Now().Add(time.Second))
		return
	}

	s.register(conn, sess)
	defer s.unregister(conn, sess)

	slog.Debug("Session mounted", "session", sess.ID(), "component", "Web")

	done := make(chan struct{})
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.pushViews(conn, sess, done)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var ev console.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("Dropping malformed event", "error", err, "session", sess.ID(), "component", "Web")
			continue
		}
		if err := sess.Handle(ev); err != nil {
			if errors.Is(err, console.ErrSessionClosed) {
				break
			}
			slog.Warn("Event rejected", "type", ev.Type, "error", err, "session", sess.ID(), "component", "Web")
		}
	}

	close(done)
	writer.Wait()
}

// pushViews writes the current view once, then again on every change.
// It is the only writer on conn.
func (s *Server) pushViews(conn *websocket.Conn, sess *console.Session, done <-chan struct{}) {
	write := func() bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(sess.View()); err != nil {
			slog.Debug("View push failed", "error", err, "session", sess.ID(), "component", "Web")
			// Unblock the reader so the session unmounts.
			conn.Close()
			return false
		}
		return true
	}

	if !write() {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-sess.ChangeCh():
			if !write() {
				return
			}
		}
	}
}

func (s *Server) register(conn *websocket.Conn, sess *console.Session) {
	s.wg.Add(1)
	s.clientsMu.Lock()
	s.clients[conn] = sess
	s.clientsMu.Unlock()
	if s.appState != nil {
		s.appState.SessionOpened()
	}
}

func (s *Server) unregister(conn *websocket.Conn, sess *console.Session) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()

	sess.Close()
	if s.appState != nil {
		s.appState.SessionClosed(sess.Coordinator().Submissions())
	}
	slog.Debug("Session unmounted", "session", sess.ID(), "component", "Web")
	s.wg.Done()
}
