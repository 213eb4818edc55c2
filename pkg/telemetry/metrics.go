package telemetry

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the engine. A disabled
// Metrics has nil collectors and every recorder is a no-op.
type Metrics struct {
	config   MetricsConfig
	registry *prometheus.Registry

	validations           *prometheus.CounterVec
	violations            *prometheus.CounterVec
	commits               *prometheus.CounterVec
	commitDuration        *prometheus.HistogramVec
	referentialRejections *prometheus.CounterVec
	outlineRecomputations *prometheus.CounterVec
	errorsByClass         *prometheus.CounterVec
	errorsByCode          *prometheus.CounterVec
	profilesStored        prometheus.Gauge
	profilesStale         prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	m := &Metrics{config: cfg}
	if !cfg.Enabled {
		return m, nil
	}

	ns := cfg.Namespace
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: name, Help: help}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: name, Help: help})
	}
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m.validations = counter("validations_total", "Constraint table evaluations by outcome.", "family", "outcome")
	m.violations = counter("violations_total", "Rejected validations by failure class.", "family", "class")
	m.commits = counter("commits_total", "Commit pipeline runs by outcome.", "operation", "outcome")
	m.commitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "commit_duration_seconds",
		Help:      "Duration of the commit pipeline.",
		Buckets:   buckets,
	}, []string{"operation"})
	m.referentialRejections = counter("referential_rejections_total", "Commits and deletes rejected by reference integrity.", "code")
	m.outlineRecomputations = counter("outline_recomputations_total", "Stale outlines recomputed on read.", "family")
	m.errorsByClass = counter("errors_by_class_total", "Errors by class.", "class")
	m.errorsByCode = counter("errors_by_code_total", "Errors by code.", "code")
	m.profilesStored = gauge("profiles_stored", "Committed profiles.")
	m.profilesStale = gauge("profiles_stale", "Profiles whose outline awaits recomputation.")

	m.registry = prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		m.validations, m.violations, m.commits, m.commitDuration,
		m.referentialRejections, m.outlineRecomputations,
		m.errorsByClass, m.errorsByCode,
		m.profilesStored, m.profilesStale,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) enabled() bool { return m.registry != nil }

// RecordValidation counts one evaluation of a family's constraint table.
func (m *Metrics) RecordValidation(family, outcome string) {
	if m.enabled() {
		m.validations.WithLabelValues(family, outcome).Inc()
	}
}

func (m *Metrics) RecordViolation(family, class string) {
	if m.enabled() {
		m.violations.WithLabelValues(family, class).Inc()
	}
}

// RecordCommit counts a finished commit or delete and observes its
// duration.
func (m *Metrics) RecordCommit(operation, outcome string, duration time.Duration) {
	if m.enabled() {
		m.commits.WithLabelValues(operation, outcome).Inc()
		m.commitDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordReferentialRejection(code string) {
	if m.enabled() {
		m.referentialRejections.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) RecordOutlineRecomputation(family string) {
	if m.enabled() {
		m.outlineRecomputations.WithLabelValues(family).Inc()
	}
}

// RecordError counts an error by class, and by code when one is set.
func (m *Metrics) RecordError(class, code string) {
	if !m.enabled() {
		return
	}
	m.errorsByClass.WithLabelValues(class).Inc()
	if code != "" {
		m.errorsByCode.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) SetProfileCount(n float64) {
	if m.enabled() {
		m.profilesStored.Set(n)
	}
}

func (m *Metrics) SetStaleProfiles(n float64) {
	if m.enabled() {
		m.profilesStale.Set(n)
	}
}

// Registry returns the registry backing the collectors, or nil when
// metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the OpenMetrics format.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// StartMetricsServer binds the listen address and serves Handler on the
// configured path in the background. Bind errors are returned.
func (m *Metrics) StartMetricsServer() error {
	if !m.enabled() {
		return nil
	}
	ln, err := net.Listen("tcp", m.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.config.ListenAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = server.Serve(ln) }()
	return nil
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the time elapsed since NewTimer.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in seconds on observer.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}
