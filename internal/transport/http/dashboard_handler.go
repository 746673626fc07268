package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"b3dash/internal/dashboard"
	apierrors "b3dash/internal/errors"
	"b3dash/internal/services"
	ws "b3dash/internal/websocket"
)

// DashboardHandler handles session and event HTTP requests.
type DashboardHandler struct {
	service      *services.DashboardService
	hub          *ws.Hub
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *services.DashboardService, hub *ws.Hub, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		hub:          hub,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/instruments", h.ListInstruments)

	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Use(h.SessionCtx)
		r.Get("/", h.GetSession)
		r.Post("/events", h.ApplyEvent)
		r.Delete("/", h.CloseSession)
	})

	return r
}

// SessionCtx validates the session id parameter.
func (h *DashboardHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "sessionID") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sessionID", "Session id is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionResponse is the body returned by every session endpoint.
type sessionResponse struct {
	SessionID string                   `json:"session_id"`
	State     dashboard.SelectionState `json:"state"`
	Chart     *dashboard.ChartSpec     `json:"chart"`
}

// CreateSession handles POST /api/sessions
func (h *DashboardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, state, chart := h.service.CreateSession(r.Context())

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{SessionID: id, State: state, Chart: chart})
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *DashboardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, chart, err := h.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, sessionResponse{SessionID: sessionID, State: state, Chart: chart})
}

// ApplyEvent handles POST /api/sessions/{sessionID}/events
func (h *DashboardHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var ev dashboard.Event
	if err := render.DecodeJSON(r.Body, &ev); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	if err := h.validate.Struct(ev); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("event", err.Error()))
		return
	}

	state, chart, err := h.service.ApplyEvent(r.Context(), sessionID, ev)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// Live clients watching this session get the new chart pushed.
	h.hub.BroadcastChart(sessionID, chart)

	render.JSON(w, r, sessionResponse{SessionID: sessionID, State: state, Chart: chart})
}

// CloseSession handles DELETE /api/sessions/{sessionID}
func (h *DashboardHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.service.CloseSession(r.Context(), chi.URLParam(r, "sessionID"))
	render.NoContent(w, r)
}

// ListInstruments handles GET /api/instruments
func (h *DashboardHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	options := h.service.Instruments(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   options,
		"count":  len(options),
	})
}

// handleServiceError maps service errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrSessionNotFound)
	case errors.Is(err, dashboard.ErrUnknownInstrument):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusUnprocessableEntity,
			"UNKNOWN_INSTRUMENT",
			err.Error(),
			nil,
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
