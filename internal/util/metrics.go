package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_builds_total",
		Help: "Total number of catalog builds by source",
	}, []string{"source"})

	CatalogCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog cache hits by layer",
	}, []string{"layer"})

	CatalogGenerateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_generate_latency_seconds",
		Help:    "Latency of demo catalog generation",
		Buckets: prometheus.DefBuckets,
	})

	ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "basket_comparisons_total",
		Help: "Total number of basket market comparisons computed",
	})

	ComparisonLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_comparison_latency_seconds",
		Help:    "Latency of basket market comparisons",
		Buckets: prometheus.DefBuckets,
	})

	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of completed checkouts by winning market",
	}, []string{"market"})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	OrdersExportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_exported_total",
		Help: "Total number of order snapshots written to disk",
	})

	OrdersExportFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_export_failed_total",
		Help: "Total number of order snapshot export failures",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
