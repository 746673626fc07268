package services

import (
	"context"
	"log/slog"
	"time"

	"b3dash/pkg/contracts/domain"
)

// HealthService reports liveness, readiness and build information.
type HealthService struct {
	version   string
	buildTime string
	startedAt time.Time
	dataset   *domain.Dataset
	logger    *slog.Logger
}

// NewHealthService creates a health service. The dataset is non-nil only
// after a successful load, which is exactly the readiness condition.
func NewHealthService(version, buildTime string, dataset *domain.Dataset, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startedAt: time.Now(),
		dataset:   dataset,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns the overall health snapshot.
func (s *HealthService) HealthCheck(ctx context.Context) map[string]interface{} {
	rows, instruments := 0, 0
	if s.dataset != nil {
		rows = len(s.dataset.Trades)
		instruments = len(s.dataset.Instruments)
	}

	return map[string]interface{}{
		"status":      s.status(),
		"version":     s.version,
		"uptime":      time.Since(s.startedAt).String(),
		"rows":        rows,
		"instruments": instruments,
	}
}

// ReadinessCheck reports whether the dataset is loaded and serving can start.
func (s *HealthService) ReadinessCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"status": s.status()}
}

// LivenessCheck reports process liveness.
func (s *HealthService) LivenessCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"status": "alive"}
}

// Version returns build information.
func (s *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    s.version,
		"build_time": s.buildTime,
	}
}

func (s *HealthService) status() string {
	if s.dataset == nil || len(s.dataset.Trades) == 0 {
		return "not_ready"
	}
	return "ready"
}
