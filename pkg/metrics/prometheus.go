// Package metrics provides Prometheus metrics for the review blitz service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Business metrics.
	reviewsSubmitted  prometheus.Counter
	reviewsRejected   prometheus.Counter
	reviewsApproved   prometheus.Counter
	reviewsDiscarded  prometheus.Counter
	heatBonusesGiven  prometheus.Counter
	leaderboardBuilds prometheus.Counter
	scoringLatency    prometheus.Histogram

	// Operational health.
	pendingReviews prometheus.Gauge
	participants   prometheus.Gauge

	// HTTP performance.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collector noise.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "blitz",
		subsystem:        "reviews",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reviewsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submitted_total",
		Help:      "Total number of blitz reviews accepted for scoring",
	})
	m.reviewsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejected_total",
		Help:      "Total number of submissions rejected by validation",
	})
	m.reviewsApproved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "approved_total",
		Help:      "Total number of blitz reviews approved by moderators",
	})
	m.reviewsDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discarded_total",
		Help:      "Total number of blitz reviews rejected out of the approval queue",
	})
	m.heatBonusesGiven = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "heat_bonuses_total",
		Help:      "Total number of nonzero heat bonuses awarded",
	})
	m.leaderboardBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_builds_total",
		Help:      "Total number of leaderboard aggregations",
	})
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of review scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.pendingReviews = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pending",
		Help:      "Current depth of the approval queue",
	})
	m.participants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants",
		Help:      "Number of members participating in the current blitz",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordReviewSubmitted increments the accepted submissions counter.
func RecordReviewSubmitted() {
	globalManager.reviewsSubmitted.Inc()
}

// RecordReviewRejected increments the validation rejections counter.
func RecordReviewRejected() {
	globalManager.reviewsRejected.Inc()
}

// RecordReviewApproved increments the moderator approvals counter.
func RecordReviewApproved() {
	globalManager.reviewsApproved.Inc()
}

// RecordReviewDiscarded increments the moderator rejections counter.
func RecordReviewDiscarded() {
	globalManager.reviewsDiscarded.Inc()
}

// RecordHeatBonus increments the awarded heat bonuses counter.
func RecordHeatBonus() {
	globalManager.heatBonusesGiven.Inc()
}

// RecordLeaderboardBuild increments the leaderboard aggregation counter.
func RecordLeaderboardBuild() {
	globalManager.leaderboardBuilds.Inc()
}

// RecordScoringLatency records review scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// UpdatePendingReviews sets the approval queue depth gauge.
func UpdatePendingReviews(n int) {
	globalManager.pendingReviews.Set(float64(n))
}

// UpdateParticipants sets the participant count gauge.
func UpdateParticipants(n int) {
	globalManager.participants.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request by endpoint, method, and status.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
