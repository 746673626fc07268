package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"b3dash/internal/dashboard"
	"b3dash/internal/infrastructure"
	"b3dash/pkg/contracts/domain"
)

// ErrSessionNotFound is returned when an event references a session id that
// was never created or has been cleared away.
var ErrSessionNotFound = errors.New("session not found")

// DashboardService owns the shared dataset and the per-session selection
// states. The dataset is immutable after load and shared lock-free; the
// session registry is the only mutable state and is mutex-guarded so
// concurrent sessions stay independent.
type DashboardService struct {
	dataset *domain.Dataset
	reducer *dashboard.Reducer
	logger  *slog.Logger
	metrics *infrastructure.Metrics

	mu       sync.RWMutex
	sessions map[string]dashboard.SelectionState
}

// NewDashboardService creates the service over an already-loaded dataset.
func NewDashboardService(dataset *domain.Dataset, logger *slog.Logger, metrics *infrastructure.Metrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		dataset:  dataset,
		reducer:  dashboard.NewReducer(dataset),
		logger:   logger.With(slog.String("component", "dashboard_service")),
		metrics:  metrics,
		sessions: make(map[string]dashboard.SelectionState),
	}
}

// Dataset exposes the shared read-only dataset to collaborators such as the
// exporter.
func (s *DashboardService) Dataset() *domain.Dataset {
	return s.dataset
}

// CreateSession registers a new session with an empty selection and returns
// its id together with the initial state and chart.
func (s *DashboardService) CreateSession(ctx context.Context) (string, dashboard.SelectionState, *dashboard.ChartSpec) {
	id := uuid.New().String()
	state := dashboard.EmptySelection()

	s.mu.Lock()
	s.sessions[id] = state
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SessionsActive.Set(float64(count))
	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", id),
		slog.Int("active_sessions", count))

	return id, state, s.reducer.BuildChart(state.Selected)
}

// ApplyEvent reduces one event against the session's current selection and
// stores the next state. The reduction itself is pure; only the registry
// entry is replaced.
func (s *DashboardService) ApplyEvent(ctx context.Context, sessionID string, ev dashboard.Event) (dashboard.SelectionState, *dashboard.ChartSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions[sessionID]
	if !ok {
		return dashboard.SelectionState{}, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	next, chart, err := s.reducer.Reduce(ev, cur)
	if err != nil {
		return cur, nil, err
	}

	s.sessions[sessionID] = next
	s.metrics.EventsProcessed.WithLabelValues(string(ev.Kind)).Inc()

	s.logger.DebugContext(ctx, "event applied",
		slog.String("session_id", sessionID),
		slog.String("event", string(ev.Kind)),
		slog.Int("selected", len(next.Selected)))

	return next, chart, nil
}

// Snapshot returns the session's current state and chart without applying
// an event.
func (s *DashboardService) Snapshot(ctx context.Context, sessionID string) (dashboard.SelectionState, *dashboard.ChartSpec, error) {
	s.mu.RLock()
	state, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return dashboard.SelectionState{}, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return state, s.reducer.BuildChart(state.Selected), nil
}

// CloseSession removes a session from the registry. Unknown ids are ignored;
// teardown is best-effort.
func (s *DashboardService) CloseSession(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SessionsActive.Set(float64(count))
}

// Instruments returns the dropdown options: every instrument in mean-price
// order with its aggregate label.
func (s *DashboardService) Instruments(ctx context.Context) []domain.InstrumentOption {
	options := make([]domain.InstrumentOption, 0, len(s.dataset.Instruments))
	for _, code := range s.dataset.Instruments {
		mean := s.dataset.MeanPrice[code]
		count := s.dataset.TradeCount[code]
		options = append(options, domain.InstrumentOption{
			Code:  code,
			Label: dashboard.InstrumentLabel(code, mean, count),
			Mean:  mean,
			Count: count,
		})
	}
	return options
}
