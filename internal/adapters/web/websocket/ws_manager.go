package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

// Message types pushed to dashboard clients.
const (
	TypeFleet      = "fleet"
	TypeSample     = "sample"
	TypeTimeseries = "timeseries"
)

const (
	writeWait     = 5 * time.Second
	sampleBacklog = 8
)

// DefaultAllowedOrigins are accepted in addition to same-host requests.
var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://127.0.0.1:8080",
	"http://[::1]:8080",
}

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// TimelineReader exposes the rolling window sent to new clients.
type TimelineReader interface {
	Samples() []domain.Sample
}

// WSManager fans published snapshots and samples out to WebSocket clients.
type WSManager struct {
	Source   ports.SnapshotSource
	Timeline TimelineReader

	upgrader websocket.Upgrader
	samples  chan domain.Sample

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewWSManager creates a manager. Origins matching the request host are always
// accepted; allowedOrigins are added to DefaultAllowedOrigins.
func NewWSManager(source ports.SnapshotSource, timeline TimelineReader, allowedOrigins ...string) *WSManager {
	allowedOrigins = append(append([]string{}, DefaultAllowedOrigins...), allowedOrigins...)
	m := &WSManager{
		Source:   source,
		Timeline: timeline,
		samples:  make(chan domain.Sample, sampleBacklog),
		clients:  make(map[*websocket.Conn]struct{}),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return m
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(origin, a) {
				return true
			}
		}

		slog.Warn("WebSocket: rejected origin", "origin", origin)
		return false
	}
}

// Start broadcasts every published snapshot and recorded sample until ctx ends.
func (m *WSManager) Start(ctx context.Context) {
	snapshots, cancel := m.Source.Subscribe(1)
	go func() {
		defer cancel()
		defer m.closeAll()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				m.broadcast(WSMessage{Type: TypeFleet, Payload: snap})
			case smp := <-m.samples:
				m.broadcast(WSMessage{Type: TypeSample, Payload: smp})
			}
		}
	}()
}

// RecordSample queues a sample for broadcast. Samples are dropped when the
// backlog is full.
func (m *WSManager) RecordSample(_ context.Context, sample domain.Sample) {
	select {
	case m.samples <- sample:
	default:
		telemetry.SinkErrors.WithLabelValues("websocket").Inc()
	}
}

// HandleWebSocket upgrades the request and sends the current state.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	m.mu.Lock()
	initial := []WSMessage{{Type: TypeFleet, Payload: m.Source.Snapshot()}}
	if m.Timeline != nil {
		initial = append(initial, WSMessage{Type: TypeTimeseries, Payload: m.Timeline.Samples()})
	}
	for _, msg := range initial {
		if err := writeJSON(conn, msg); err != nil {
			m.mu.Unlock()
			conn.Close()
			slog.Warn("WebSocket initial write failed", "error", err)
			return
		}
	}
	m.clients[conn] = struct{}{}
	n := len(m.clients)
	m.mu.Unlock()

	telemetry.WebSocketClients.Set(float64(n))
	slog.Info("WebSocket connected", "remote", r.RemoteAddr, "clients", n)

	// Clean up on disconnect
	go func() {
		defer m.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *WSManager) remove(conn *websocket.Conn) {
	m.mu.Lock()
	_, ok := m.clients[conn]
	delete(m.clients, conn)
	n := len(m.clients)
	m.mu.Unlock()

	conn.Close()
	if ok {
		telemetry.WebSocketClients.Set(float64(n))
		slog.Info("WebSocket disconnected", "clients", n)
	}
}

func (m *WSManager) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("JSON marshal error", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
	telemetry.WebSocketClients.Set(float64(len(m.clients)))
}

func (m *WSManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(m.clients, conn)
	}
	telemetry.WebSocketClients.Set(0)
}

func writeJSON(conn *websocket.Conn, msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Ensure interface compliance
var _ ports.SampleSink = (*WSManager)(nil)
