package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-feed/internal/metrics"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordBuildSuccess()
	c.RecordBuildFailure()

	assert.Equal(t, 2.0, counterValue(t, reg, "birthday_feed_cache_hits_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "birthday_feed_cache_misses_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "birthday_feed_build_success_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "birthday_feed_build_fail_total", nil))
}

func TestCollectorHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusNotModified)

	assert.Equal(t, 2.0, counterValue(t, reg, "birthday_feed_http_status_total", map[string]string{"status_code": "200"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "birthday_feed_http_status_total", map[string]string{"status_code": "304"}))
}

func TestCollectorBuildDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordBuildDuration(250 * time.Millisecond)
	c.RecordBuildDuration(750 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "birthday_feed_build_duration_seconds" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 1.0, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found)
}

func TestHandlerExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordCacheHit()

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "birthday_feed_cache_hits_total 1")
}
