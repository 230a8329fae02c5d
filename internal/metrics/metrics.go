package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_upstream_calls_total",
			Help: "Total calls to upstream weather/water/stocking APIs",
		},
		[]string{"source", "endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_upstream_latency_seconds",
			Help:    "Upstream API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "endpoint"},
	)

	RecordsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_records_stored_total",
			Help: "Records written to the domain stores",
		},
		[]string{"domain"},
	)

	CleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fishcast_cleanup_deleted_total",
			Help: "Weather rows removed by the retention sweep",
		},
	)
)
