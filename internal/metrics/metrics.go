// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records pipeline and HTTP metrics.
type Collector struct {
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	buildSuccess  prometheus.Counter
	buildFail     prometheus.Counter
	buildDuration prometheus.Histogram
	httpStatus    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "birthday_feed_cache_hits_total",
			Help: "Feed requests answered from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "birthday_feed_cache_misses_total",
			Help: "Feed requests that triggered a full pipeline run.",
		}),
		buildSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "birthday_feed_build_success_total",
			Help: "Successful fetch+parse+generate pipeline runs.",
		}),
		buildFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "birthday_feed_build_fail_total",
			Help: "Failed pipeline runs.",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "birthday_feed_build_duration_seconds",
			Help:    "Wall time of a full pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_feed_http_status_total",
			Help: "Feed endpoint responses by HTTP status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.buildSuccess,
		c.buildFail,
		c.buildDuration,
		c.httpStatus,
	)
	return c
}

// RecordCacheHit counts a request served from the cache.
func (c *Collector) RecordCacheHit() { c.cacheHits.Inc() }

// RecordCacheMiss counts a request that fell through to the pipeline.
func (c *Collector) RecordCacheMiss() { c.cacheMisses.Inc() }

// RecordBuildSuccess counts a completed pipeline run.
func (c *Collector) RecordBuildSuccess() { c.buildSuccess.Inc() }

// RecordBuildFailure counts an aborted pipeline run.
func (c *Collector) RecordBuildFailure() { c.buildFail.Inc() }

// RecordBuildDuration tracks the latency of a pipeline run.
func (c *Collector) RecordBuildDuration(d time.Duration) {
	c.buildDuration.Observe(d.Seconds())
}

// RecordHTTPStatus counts a feed endpoint response.
func (c *Collector) RecordHTTPStatus(code int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
