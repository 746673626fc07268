package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"b3dash/internal/config"
	apierrors "b3dash/internal/errors"
	"b3dash/internal/services"
	ws "b3dash/internal/websocket"
)

// WSHandler upgrades dashboard clients onto the hub so chart updates can be
// pushed without polling.
type WSHandler struct {
	service      *services.DashboardService
	hub          *ws.Hub
	upgrader     websocket.Upgrader
	cfg          config.WebSocketConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewWSHandler creates a websocket handler.
func NewWSHandler(service *services.DashboardService, hub *ws.Hub, cfg config.WebSocketConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// Origin enforcement happens in the CORS middleware; the
			// dashboard page is same-origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "ws_handler")),
		errorHandler: errorHandler,
	}
}

// Handle handles GET /ws?session={sessionID}
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("session", "Session id is required"))
		return
	}

	// Reject unknown sessions before upgrading.
	_, chart, err := h.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrSessionNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	client := ws.NewClient(h.hub, conn, sessionID, h.cfg.PingPeriod, h.cfg.PongWait, h.logger)
	client.Start()

	// Seed the new client with the session's current chart.
	h.hub.BroadcastChart(sessionID, chart)
}
