package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefineRequests counts refine requests by outcome: ok, invalid,
	// no_credential, upstream_error.
	RefineRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptlens_refine_requests_total",
		Help: "Refine requests by outcome.",
	}, []string{"outcome"})

	// RefineFallbacks counts requests answered with the synthesized
	// fallback suggestion because the upstream reply was unparseable.
	RefineFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptlens_refine_fallbacks_total",
		Help: "Refine requests served with the fallback suggestion.",
	})

	// CacheHits counts refine requests served from the response cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptlens_refine_cache_hits_total",
		Help: "Refine requests served from cache.",
	})

	// UpstreamLatency observes the duration of upstream completion
	// calls, successful or not.
	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "promptlens_upstream_latency_seconds",
		Help:    "Latency of upstream completion calls.",
		Buckets: prometheus.DefBuckets,
	})
)
