package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"b3dash/internal/dashboard"
)

// Message types pushed to dashboard clients.
const (
	TypeConnection  = "connection"
	TypeChartUpdate = "chart_update"
	TypeError       = "error"
)

// Message is the envelope for every frame pushed to a client.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub maintains the active clients grouped by dashboard session and pushes
// chart updates to the session that produced them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]bool
	logger   *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]map[*Client]bool),
		logger:   logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register attaches a client to its session's broadcast group.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[c.sessionID] = clients
	}
	clients[c] = true
	count := len(clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("session_id", c.sessionID),
		slog.String("client_id", c.id),
		slog.Int("session_clients", count))
}

// Unregister detaches a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if clients, ok := h.sessions[c.sessionID]; ok {
		if _, registered := clients[c]; registered {
			delete(clients, c)
			close(c.send)
			if len(clients) == 0 {
				delete(h.sessions, c.sessionID)
			}
		}
	}
	h.mu.Unlock()

	h.logger.Info("client unregistered",
		slog.String("session_id", c.sessionID),
		slog.String("client_id", c.id))
}

// BroadcastChart pushes the chart produced by a reduction to every client
// watching the session. Slow clients are dropped rather than blocking the
// reduction path.
func (h *Hub) BroadcastChart(sessionID string, chart *dashboard.ChartSpec) {
	data, err := json.Marshal(Message{
		Type:      TypeChartUpdate,
		SessionID: sessionID,
		Payload:   chart,
	})
	if err != nil {
		h.logger.Error("failed to marshal chart update",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.sessions[sessionID] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("dropping slow client",
				slog.String("session_id", sessionID),
				slog.String("client_id", client.id))
			go h.Unregister(client)
		}
	}
}

// ClientCount returns the number of clients attached to a session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
