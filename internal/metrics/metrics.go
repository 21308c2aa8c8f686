package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHits counts cache lookups served without recomputation, per namespace
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gernibide_cache_hits_total",
		Help: "Number of statistics cache hits",
	}, []string{"cache"})

	// CacheMisses counts lookups that triggered a recomputation, per namespace
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gernibide_cache_misses_total",
		Help: "Number of statistics cache misses",
	}, []string{"cache"})

	// CacheEvictions counts expired entries dropped on access, per namespace
	CacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gernibide_cache_evictions_total",
		Help: "Number of expired statistics cache entries evicted",
	}, []string{"cache"})

	// HTTPDuration observes request latency per method and route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gernibide_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler exposes the prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
