package uploadbox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "uploadbox").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "uploadbox",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors a Box reports to. A nil *Metrics is valid
// and records nothing.
//
// Metrics collected:
//   - uploadbox_commits_total: commits by result (success, failure, skipped)
//   - uploadbox_requests_total: network calls by operation and status
//   - uploadbox_request_duration_seconds: network call duration by operation
//   - uploadbox_validation_rejections_total: rejected files by reason
//   - uploadbox_attachments_total: files accepted as local attachments
type Metrics struct {
	commitsTotal    *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rejections      *prometheus.CounterVec
	attachments     prometheus.Counter
}

// NewMetrics creates and registers the collectors. Registering twice on
// the same registry panics, so share one *Metrics between boxes.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of commit invocations by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of upload, delete and download requests by status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Network request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_rejections_total",
			Help:        "Total number of files rejected by validation",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		attachments: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attachments_total",
			Help:        "Total number of files accepted as local attachments",
			ConstLabels: config.ConstLabels,
		}),
	}
}

const (
	opDelete   = "delete"
	opUpload   = "upload"
	opDownload = "download"
)

func (m *Metrics) observeCommit(result string) {
	if m == nil {
		return
	}
	m.commitsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) observeRequest(op string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.requestsTotal.WithLabelValues(op, status).Inc()
	m.requestDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) observePartition(p Partition) {
	if m == nil {
		return
	}
	if n := len(p.Rejected); n > 0 {
		m.rejections.WithLabelValues("type").Add(float64(n))
	}
	if n := len(p.Oversized); n > 0 {
		m.rejections.WithLabelValues("size").Add(float64(n))
	}
	if n := len(p.Allowed); n > 0 {
		m.attachments.Add(float64(n))
	}
}
