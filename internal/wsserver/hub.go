package wsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeDeadline bounds a single WebSocket write. Localhost single-client
// writes complete in microseconds; a WebView frozen longer than this is
// treated as dead.
const writeDeadline = 5 * time.Second

// readDeadline is the maximum time the server waits for any read activity
// (including pong responses) before considering the connection dead.
// 90 seconds allows ~3 missed pings before timeout.
const readDeadline = 90 * time.Second

// pingInterval is the interval between server-initiated WebSocket pings.
const pingInterval = 30 * time.Second

// maxReadMessageSize limits incoming message size. The overlay client sends
// nothing but tiny keepalive payloads.
const maxReadMessageSize = 32 * 1024

// wsUpgrader is shared across connections; the Upgrader is stateless.
var wsUpgrader = websocket.Upgrader{
	// The server binds to 127.0.0.1 only, so the origin check is permissive
	// for WebView compatibility.
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4 * 1024,
}

// HubOptions configures the WebSocket server.
type HubOptions struct {
	// Addr is the listen address. Use "127.0.0.1:0" for an OS-assigned port.
	Addr string
}

// Hub manages a single WebSocket connection streaming recorder state to the
// overlay WebView.
//
// Single-connection model: the desktop app has one overlay client, and new
// connections replace existing ones so page reloads recover cleanly. The
// last status frame is retained and replayed to each new client.
//
// Lock ordering (never acquire in reverse):
//
//	writeMu -> mu
//
// mu protects connection state and the retained status frame. writeMu
// serializes gorilla/websocket WriteMessage calls.
//
// Write failure policy: any write failure disconnects the client via
// clearIfCurrent+closeConn. The client must reconnect.
type Hub struct {
	opts HubOptions

	// mu protects conn and lastStatus. See lock ordering comment on Hub.
	mu         sync.RWMutex
	conn       *websocket.Conn
	lastStatus *StatusFrame

	// writeMu serializes WriteMessage calls. gorilla/websocket does not
	// support concurrent writes. Never hold mu when acquiring writeMu.
	writeMu sync.Mutex

	listener net.Listener
	server   *http.Server
	url      string // "ws://127.0.0.1:<port>/ws", set after Start

	// closeOnce makes Stop idempotent. A stopped Hub cannot be reused.
	closeOnce sync.Once
}

// NewHub creates a Hub with the given options. The hub is not started until
// Start is called.
func NewHub(opts HubOptions) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	return &Hub{opts: opts}
}

// Start begins listening on the configured address. The context becomes the
// server's BaseContext; the server itself must be stopped via Stop.
//
// Start must be called exactly once during application startup.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("wsserver: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wsserver: listen: %w", err)
	}
	h.listener = ln

	port := ln.Addr().(*net.TCPAddr).Port
	h.url = fmt.Sprintf("ws://127.0.0.1:%d/ws", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)

	h.server = &http.Server{
		Handler: mux,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("[WS] server error", "error", serveErr)
		}
	}()

	slog.Info("[WS] status stream started", "url", h.url)
	return nil
}

// Stop shuts down the HTTP server and closes any active connection.
// Safe to call multiple times.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		conn := h.conn
		h.conn = nil
		h.mu.Unlock()

		if conn != nil {
			if err := conn.Close(); err != nil {
				slog.Debug("[WS] connection close during stop", "error", err)
			}
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("wsserver: shutdown: %w", err)
			}
		}

		slog.Info("[WS] status stream stopped")
	})
	return stopErr
}

// URL returns the WebSocket URL for the overlay client, or "" before Start.
func (h *Hub) URL() string {
	return h.url
}

// HasActiveConnection reports whether an overlay client is connected.
func (h *Hub) HasActiveConnection() bool {
	h.mu.RLock()
	active := h.conn != nil
	h.mu.RUnlock()
	return active
}

// BroadcastStatus sends the recorder flag set to the connected client and
// retains it for replay to future clients. No-op while disconnected apart
// from the retention.
func (h *Hub) BroadcastStatus(recording, pttHeld, pasteHeld bool) {
	frame := NewStatusFrame(recording, pttHeld, pasteHeld)

	h.mu.Lock()
	h.lastStatus = &frame
	conn := h.conn
	h.mu.Unlock()

	if conn == nil {
		return
	}
	h.writeFrame(conn, frame, "status broadcast")
}

// BroadcastPartial sends interim transcription text to the connected client.
func (h *Hub) BroadcastPartial(text string) {
	h.mu.RLock()
	conn := h.conn
	h.mu.RUnlock()
	if conn == nil {
		return
	}
	h.writeFrame(conn, PartialFrame{Type: FramePartial, Text: text}, "partial broadcast")
}

// BroadcastTranscript sends a finalized dictation result to the client.
func (h *Hub) BroadcastTranscript(id, text, provider string) {
	h.mu.RLock()
	conn := h.conn
	h.mu.RUnlock()
	if conn == nil {
		slog.Debug("[WS] transcript broadcast skipped: no connection")
		return
	}
	h.writeFrame(conn, TranscriptFrame{Type: FrameTranscript, ID: id, Text: text, Provider: provider}, "transcript broadcast")
}

// writeFrame marshals v and writes it as a text message under writeMu. Write
// failures disconnect the client.
func (h *Hub) writeFrame(conn *websocket.Conn, v any, context string) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("[WS] failed to marshal frame", "context", context, "error", err)
		return
	}

	h.writeMu.Lock()
	if !h.setWriteDeadlineOrClose(conn, writeDeadline) {
		h.writeMu.Unlock()
		return
	}
	writeErr := conn.WriteMessage(websocket.TextMessage, payload)
	h.clearWriteDeadline(conn)
	h.writeMu.Unlock()

	if writeErr != nil {
		slog.Warn("[WS] write failed, closing connection", "context", context, "error", writeErr)
		h.clearIfCurrent(conn)
		h.closeConn(conn, context)
	}
}

// clearIfCurrent clears the hub's connection only if conn is still current.
// Caller must NOT hold h.mu.
func (h *Hub) clearIfCurrent(conn *websocket.Conn) bool {
	h.mu.Lock()
	isCurrent := h.conn == conn
	if isCurrent {
		h.conn = nil
	}
	h.mu.Unlock()
	return isCurrent
}

// closeConn closes a connection. Double-close is expected when another
// goroutine already closed it (page reload replacing the old connection).
func (h *Hub) closeConn(conn *websocket.Conn, reason string) {
	if closeErr := conn.Close(); closeErr != nil {
		slog.Debug("[WS] connection close", "reason", reason, "error", closeErr)
	}
}

// setWriteDeadlineOrClose sets a write deadline. If that fails the connection
// is in an indeterminate state and is closed to prevent indefinite blocking.
func (h *Hub) setWriteDeadlineOrClose(conn *websocket.Conn, d time.Duration) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
		slog.Warn("[WS] SetWriteDeadline failed, closing connection", "error", err)
		h.clearIfCurrent(conn)
		h.closeConn(conn, "SetWriteDeadline failure")
		return false
	}
	return true
}

// clearWriteDeadline resets the deadline after a successful write. Failure
// is non-fatal: the next write sets a fresh deadline.
func (h *Hub) clearWriteDeadline(conn *websocket.Conn) {
	if err := conn.SetWriteDeadline(time.Time{}); err != nil {
		slog.Debug("[WS] clearWriteDeadline failed (non-fatal)", "error", err)
	}
}

// handleWS upgrades HTTP to WebSocket and runs the read pump. Only one
// connection is active at a time; new connections replace old ones.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[WS] upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxReadMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		slog.Warn("[WS] SetReadDeadline failed on new connection", "error", err)
		h.closeConn(conn, "initial SetReadDeadline failure")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	// Replace existing connection (page reload scenario).
	h.mu.Lock()
	oldConn := h.conn
	h.conn = conn
	replay := h.lastStatus
	h.mu.Unlock()

	if oldConn != nil {
		h.closeConn(oldConn, "replaced by new connection")
	}

	slog.Info("[WS] overlay client connected", "remoteAddr", conn.RemoteAddr())

	// A fresh client needs the current recorder state before the next
	// state change arrives.
	if replay != nil {
		h.writeFrame(conn, *replay, "status replay on connect")
	}

	pingDone := make(chan struct{})
	go h.pingLoop(conn, pingDone)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[WS] handleWS recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}

		close(pingDone)
		h.clearIfCurrent(conn)
		h.closeConn(conn, "read pump exit")
		slog.Info("[WS] overlay client disconnected")
	}()

	// Read pump. The overlay client does not send application messages;
	// reads exist to service control frames and detect disconnects. Text
	// messages that are not valid JSON get an error frame back.
	for {
		msgType, msg, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("[WS] read error", "error", readErr)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if _, jsonErr := DecodeFrameType(msg); jsonErr != nil {
			slog.Debug("[WS] invalid JSON from client", "error", jsonErr)
			h.writeFrame(conn, ErrorFrame{Type: FrameError, Message: fmt.Sprintf("invalid JSON: %s", jsonErr)}, "client error notification")
		}
	}
}

// pingLoop sends periodic pings to detect dead connections. Exits when done
// is closed or a ping fails.
func (h *Hub) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[WS] pingLoop recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			h.clearIfCurrent(conn)
			h.closeConn(conn, "pingLoop panic recovery")
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			if !h.setWriteDeadlineOrClose(conn, writeDeadline) {
				h.writeMu.Unlock()
				return
			}
			pingErr := conn.WriteMessage(websocket.PingMessage, nil)
			h.clearWriteDeadline(conn)
			h.writeMu.Unlock()

			if pingErr != nil {
				slog.Debug("[WS] ping failed, connection likely dead", "error", pingErr)
				h.clearIfCurrent(conn)
				h.closeConn(conn, "ping failure")
				return
			}
		}
	}
}
