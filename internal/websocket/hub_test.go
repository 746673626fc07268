package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3dash/internal/dashboard"
)

func newTestClient(hub *Hub, sessionID string, buffer int) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan []byte, buffer),
		id:        "test-" + sessionID,
		sessionID: sessionID,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := newTestClient(hub, "session-a", 1)

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount("session-a"))

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount("session-a"))

	// A second unregister must not close the channel twice.
	hub.Unregister(c)
}

func TestHubBroadcastChart(t *testing.T) {
	hub := testHub()
	watcher := newTestClient(hub, "session-a", 1)
	other := newTestClient(hub, "session-b", 1)
	hub.Register(watcher)
	hub.Register(other)

	chart := &dashboard.ChartSpec{XAxisLabel: "HoraFechamento", YAxisLabel: "PrecoNegocio"}
	hub.BroadcastChart("session-a", chart)

	select {
	case data := <-watcher.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeChartUpdate, msg.Type)
		assert.Equal(t, "session-a", msg.SessionID)
	case <-time.After(time.Second):
		t.Fatal("expected chart update for session-a watcher")
	}

	// The other session's client stays quiet.
	select {
	case <-other.send:
		t.Fatal("unexpected message for session-b client")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := testHub()
	slow := newTestClient(hub, "session-a", 1)
	hub.Register(slow)

	chart := &dashboard.ChartSpec{}
	hub.BroadcastChart("session-a", chart) // fills the buffer
	hub.BroadcastChart("session-a", chart) // overflows, schedules removal

	require.Eventually(t, func() bool {
		return hub.ClientCount("session-a") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastToEmptySession(t *testing.T) {
	hub := testHub()
	hub.BroadcastChart("nobody-home", &dashboard.ChartSpec{})
	assert.Equal(t, 0, hub.ClientCount("nobody-home"))
}
