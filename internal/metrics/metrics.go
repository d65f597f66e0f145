// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modreview_store_query_duration_seconds",
			Help:    "Duration of activity store reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modreview_store_query_errors_total",
			Help: "Total number of failed activity store reads",
		},
		[]string{"dataset"},
	)

	DashboardBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modreview_dashboard_build_duration_seconds",
			Help:    "Time to fetch, filter and aggregate one dashboard",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SectionsUnavailable counts dashboard sections rendered without data
	// because their dataset could not be read.
	SectionsUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modreview_sections_unavailable_total",
			Help: "Dashboard sections returned as unavailable",
		},
		[]string{"section"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modreview_cache_hits_total",
			Help: "Dataset reads served from Redis",
		},
		[]string{"dataset"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modreview_cache_misses_total",
			Help: "Dataset reads that fell through to the store",
		},
		[]string{"dataset"},
	)

	ExportRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "modreview_export_rows_total",
			Help: "Video rows written to CSV exports",
		},
	)
)
