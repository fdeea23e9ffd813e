package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailrelay_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// GenerationDuration tracks backend inference latency per model.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailrelay_generation_duration_seconds",
		Help:    "Time spent waiting on backend text generation.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model", "task"})

	// BackendUp tracks the result of the most recent backend probe.
	BackendUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mailrelay_backend_up",
		Help: "Whether the inference backend was healthy at the last probe (1) or not (0).",
	})

	// CacheHits counts summary cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailrelay_summary_cache_hits_total",
		Help: "Total summarize requests served from the cache.",
	})
)
