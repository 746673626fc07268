package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Loader metrics
	RowsParsed   prometheus.Counter
	RowsExcluded *prometheus.CounterVec
	RowsLoaded   prometheus.Gauge

	// Dashboard metrics
	SessionsActive  prometheus.Gauge
	EventsProcessed *prometheus.CounterVec
}

// NewMetrics creates the application metrics on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RowsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "b3dash",
			Subsystem: "loader",
			Name:      "rows_parsed_total",
			Help:      "Raw rows read from the source file.",
		}),
		RowsExcluded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "b3dash",
			Subsystem: "loader",
			Name:      "rows_excluded_total",
			Help:      "Rows excluded during cleaning, by reason.",
		}, []string{"reason"}),
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "b3dash",
			Subsystem: "loader",
			Name:      "rows_loaded",
			Help:      "Cleaned rows held in the in-memory table.",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "b3dash",
			Subsystem: "dashboard",
			Name:      "sessions_active",
			Help:      "Currently registered dashboard sessions.",
		}),
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "b3dash",
			Subsystem: "dashboard",
			Name:      "events_processed_total",
			Help:      "Reducer events processed, by event kind.",
		}, []string{"event"}),
	}
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
