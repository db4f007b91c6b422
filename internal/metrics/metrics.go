package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallerypress_http_requests_total",
		Help: "Number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gallerypress_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CollectionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallerypress_collection_cache_hits_total",
		Help: "Item collection reads served from the cache.",
	})

	CollectionCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallerypress_collection_cache_misses_total",
		Help: "Item collection reads that had to rebuild from storage.",
	})
)
