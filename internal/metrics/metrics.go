// internal/metrics/metrics.go

package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"globalfreq/internal/domain/frequency"
)

var (
	// CombineRuns counts combination runs by outcome
	CombineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalfreq_combine_runs_total",
			Help: "Total number of regional combination runs",
		},
		[]string{"status"},
	)

	CombineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "globalfreq_combine_duration_seconds",
			Help:    "Duration of regional combination runs in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	FeaturesCombined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globalfreq_features_combined_total",
			Help: "Total number of global feature trajectories produced",
		},
	)

	RegionsPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "globalfreq_regions_per_run",
			Help:    "Number of regions combined per run",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalfreq_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "globalfreq_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "globalfreq_websocket_connections_active",
			Help: "Number of open run-feed WebSocket connections",
		},
	)
)

// RecordCombine records the outcome of one combination run
func RecordCombine(duration time.Duration, regions, features int, err error) {
	CombineRuns.WithLabelValues(combineStatus(err)).Inc()
	if err != nil {
		return
	}
	CombineDuration.Observe(duration.Seconds())
	RegionsPerRun.Observe(float64(regions))
	FeaturesCombined.Add(float64(features))
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func combineStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, frequency.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, frequency.ErrGeneCountsMissing):
		return "gene_counts_missing"
	case frequency.IsInputError(err):
		return "invalid_input"
	default:
		return "error"
	}
}
