package telemetry

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	cfg := DefaultConfig().Metrics
	m, err := NewMetrics(cfg)
	require.NoError(t, err)
	return m
}

func TestMetricsRecord(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordValidation("IShape", "valid")
	m.RecordValidation("IShape", "valid")
	m.RecordValidation("IShape", "rejected")
	m.RecordViolation("IShape", "constraint_violated")
	m.RecordCommit("insert", "committed", 3*time.Millisecond)
	m.RecordReferentialRejection("TARGET_MISSING")
	m.RecordOutlineRecomputation("DoubleLShape")
	m.RecordError("referential", "CYCLE")
	m.SetProfileCount(4)
	m.SetStaleProfiles(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.validations.WithLabelValues("IShape", "valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("IShape", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.violations.WithLabelValues("IShape", "constraint_violated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("insert", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.referentialRejections.WithLabelValues("TARGET_MISSING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outlineRecomputations.WithLabelValues("DoubleLShape")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsByCode.WithLabelValues("CYCLE")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.profilesStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.profilesStale))
}

func TestDisabledMetricsAreNoOps(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RecordValidation("Circle", "valid")
		m.RecordCommit("delete", "committed", time.Second)
		m.SetStaleProfiles(3)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordValidation("Circle", "valid")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "steelshape_validations_total"))
}

func TestTimerObserveDuration(t *testing.T) {
	m := newTestMetrics(t)
	timer := NewTimer()
	timer.ObserveDuration(m.commitDuration.WithLabelValues("insert"))

	assert.Equal(t, 1, testutil.CollectAndCount(m.commitDuration))
	assert.GreaterOrEqual(t, timer.Duration(), time.Duration(0))
}

func TestStartMetricsServerReportsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := DefaultConfig().Metrics
	cfg.ListenAddress = ln.Addr().String()
	m, err := NewMetrics(cfg)
	require.NoError(t, err)
	assert.Error(t, m.StartMetricsServer())
}
