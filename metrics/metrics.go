package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestsTotal counts analysis and prompt requests by endpoint and outcome.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Subsystem: "matcher",
		Name:      "requests_total",
		Help:      "Total number of analysis requests, labeled by kind (analyze|prompt) and result.",
	}, []string{"kind", "result"})

	// ProviderDurationSeconds is the time spent waiting on the provider.
	ProviderDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wardrobe",
		Subsystem: "matcher",
		Name:      "provider_duration_seconds",
		Help:      "Latency of provider calls, labeled by provider and result.",
		// Multimodal calls are slow; keep buckets coarse.
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
	}, []string{"provider", "result"})

	// ImagesPerRequest tracks how many images are bundled in one provider call.
	ImagesPerRequest = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wardrobe",
		Subsystem: "matcher",
		Name:      "images_per_request",
		Help:      "Number of wardrobe images sent in a single analysis call.",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Subsystem: "matcher",
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the per-IP rate limiter.",
	})
)

// Register registers matcher metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			ProviderDurationSeconds,
			ImagesPerRequest,
			RateLimitedTotal,
		)
	})
}
