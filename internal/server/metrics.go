package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheStats reports results cache hit and miss counts
type CacheStats interface {
	Stats() (hits, misses int64)
}

// metrics holds the collectors of one server. Each server owns its registry.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	analyses *prometheus.CounterVec
}

func newMetrics(cache CacheStats) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "career_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"route"},
		),
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_analyses_total",
				Help: "Total number of analyses by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
	}

	if cache != nil {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "career_cache_hits_total",
			Help: "Results cache hits",
		}, func() float64 {
			hits, _ := cache.Stats()
			return float64(hits)
		})
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "career_cache_misses_total",
			Help: "Results cache misses",
		}, func() float64 {
			_, misses := cache.Stats()
			return float64(misses)
		})
	}
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) observeAnalysis(flow string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.analyses.WithLabelValues(flow, outcome).Inc()
}
