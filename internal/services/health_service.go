package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"fauxlizer/pkg/contracts/domain"
)

// OutcomeLister exposes the cached validation verdicts.
type OutcomeLister interface {
	Outcomes() []domain.ValidationOutcome
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	datasets  OutcomeLister
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Datasets  *DatasetStats          `json:"datasets,omitempty"`
}

// DatasetStats summarizes the validation cache.
type DatasetStats struct {
	Validated int `json:"validated"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, datasets OutcomeLister, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// LivenessCheck reports that the process is serving.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// HealthCheck returns overall health status including runtime and cache stats
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := hs.LivenessCheck(ctx)
	status.Runtime = map[string]interface{}{
		"uptime_seconds": time.Since(hs.startTime).Seconds(),
		"goroutines":     runtime.NumGoroutine(),
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}

	if hs.datasets != nil {
		stats := &DatasetStats{}
		for _, o := range hs.datasets.Outcomes() {
			stats.Validated++
			if o.Valid {
				stats.Valid++
			} else {
				stats.Invalid++
			}
		}
		status.Datasets = stats
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status))
	return status
}
