package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	analysis prometheus.Histogram
	cache    *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		analysis: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollup_analysis_duration_seconds",
			Help:    "Time spent producing a roll-up analysis.",
			Buckets: prometheus.DefBuckets,
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_analysis_cache_total",
			Help: "Analysis cache lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.requests, m.analysis, m.cache)
	return m
}

func (m *metrics) observeCache(hit bool) {
	if hit {
		m.cache.WithLabelValues("hit").Inc()
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

func (m *metrics) observeAnalysis(start time.Time) {
	m.analysis.Observe(time.Since(start).Seconds())
}

func (m *metrics) observeRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
