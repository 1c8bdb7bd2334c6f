package allot

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/internal/metrics"
)

// NewPrometheusMetrics creates a MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use; registering twice on the same
// registry reuses the existing collectors.
//
// Parameters:
//   - reg: Registerer to register collectors with (nil uses prometheus.DefaultRegisterer)
//   - namespace: Metric namespace, e.g. "allot"
//
// Returns:
//   - MetricsCollector: Prometheus-backed collector
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
//
// A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return logging.NewSlogDefault()
	}

	return logging.NewSlog(logger)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return logging.NewNop()
}
