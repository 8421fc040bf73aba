package http

import (
	"net/http"

	"github.com/go-chi/render"

	apperrors "fauxlizer/internal/errors"
)

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the exporter's HTTP handler. A nil handler means
// metrics export is disabled.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		render.Render(w, r, apperrors.NewProblemDetails(
			http.StatusNotFound,
			apperrors.TypeNotFound,
			"Metrics Disabled",
			"Metric export is turned off in the telemetry configuration",
			r.URL.Path,
		))
		return
	}
	h.exposition.ServeHTTP(w, r)
}
