package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3dash/internal/dashboard"
	apierrors "b3dash/internal/errors"
	"b3dash/internal/infrastructure"
	"b3dash/internal/services"
	ws "b3dash/internal/websocket"
	"b3dash/pkg/contracts/domain"
)

func newTestHandler(t *testing.T) *DashboardHandler {
	t.Helper()

	dataset := &domain.Dataset{
		Trades: []domain.Trade{
			{InstrumentCode: "PETR4", Price: 32.50},
			{InstrumentCode: "PETR4", Price: 33.00},
			{InstrumentCode: "VALE3", Price: 60.10},
		},
		MeanPrice:   map[string]float64{"PETR4": 32.75, "VALE3": 60.10},
		TradeCount:  map[string]int{"PETR4": 2, "VALE3": 1},
		Instruments: []string{"PETR4", "VALE3"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewDashboardService(dataset, logger, infrastructure.NewMetrics())
	hub := ws.NewHub(logger)

	return NewDashboardHandler(svc, hub, logger, apierrors.NewErrorHandler(logger, false))
}

func createSession(t *testing.T, srv *httptest.Server) sessionResponse {
	t.Helper()

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NotEmpty(t, session.SessionID)
	return session
}

func postEvent(t *testing.T, srv *httptest.Server, sessionID string, ev dashboard.Event) *http.Response {
	t.Helper()

	body, err := json.Marshal(ev)
	require.NoError(t, err)

	resp, err := http.Post(
		srv.URL+"/sessions/"+sessionID+"/events",
		"application/json",
		bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestListInstruments(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/instruments")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Status string                    `json:"status"`
		Data   []domain.InstrumentOption `json:"data"`
		Count  int                       `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, 2, envelope.Count)
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "PETR4 (Mean: 32.75, Count: 2)", envelope.Data[0].Label)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	session := createSession(t, srv)
	assert.Empty(t, session.State.Selected)

	// Add a stock.
	resp := postEvent(t, srv, session.SessionID, dashboard.Event{
		Kind: dashboard.EventAddStock,
		Code: "PETR4",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, []string{"PETR4"}, updated.State.Selected)
	require.NotNil(t, updated.Chart)
	require.Len(t, updated.Chart.Series, 1)
	assert.Equal(t, "HoraFechamento", updated.Chart.XAxisLabel)
	assert.Equal(t, "PrecoNegocio", updated.Chart.YAxisLabel)

	// Read it back.
	getResp, err := http.Get(srv.URL + "/sessions/" + session.SessionID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var snapshot sessionResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&snapshot))
	assert.Equal(t, updated.State, snapshot.State)

	// Close it.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+session.SessionID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	// Gone afterwards.
	goneResp, err := http.Get(srv.URL + "/sessions/" + session.SessionID)
	require.NoError(t, err)
	defer goneResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func TestApplyEventUnknownSession(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp := postEvent(t, srv, "f3b4c2aa-0000-0000-0000-000000000000", dashboard.Event{
		Kind: dashboard.EventClearAll,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/problem+json")
}

func TestApplyEventUnknownInstrument(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	session := createSession(t, srv)

	resp := postEvent(t, srv, session.SessionID, dashboard.Event{
		Kind: dashboard.EventAddStock,
		Code: "XXXX9",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "XXXX9")
}

func TestApplyEventValidation(t *testing.T) {
	tests := []struct {
		name string
		ev   dashboard.Event
	}{
		{name: "missing kind", ev: dashboard.Event{}},
		{name: "bad kind", ev: dashboard.Event{Kind: dashboard.EventKind("reset")}},
		{name: "add without code", ev: dashboard.Event{Kind: dashboard.EventAddStock}},
		{name: "code too long", ev: dashboard.Event{Kind: dashboard.EventAddStock, Code: "PETR4F"}},
	}

	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	session := createSession(t, srv)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postEvent(t, srv, session.SessionID, tt.ev)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestApplyEventMalformedBody(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	session := createSession(t, srv)

	resp, err := http.Post(
		srv.URL+"/sessions/"+session.SessionID+"/events",
		"application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSyncChecklistPrunesEntries(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	session := createSession(t, srv)

	for _, code := range []string{"PETR4", "VALE3"} {
		resp := postEvent(t, srv, session.SessionID, dashboard.Event{
			Kind: dashboard.EventAddStock,
			Code: code,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := postEvent(t, srv, session.SessionID, dashboard.Event{
		Kind:    dashboard.EventSyncChecklist,
		Checked: []string{"VALE3"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, []string{"VALE3"}, updated.State.Selected)
	require.Len(t, updated.State.Checklist, 1)
	assert.Equal(t, "VALE3", updated.State.Checklist[0].Code)
}
