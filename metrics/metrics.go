// Package metrics exposes pipeline counters through Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spokesbot_queries_total",
		Help: "Questions answered, labeled by resolved scope",
	}, []string{"scope"})

	retrievalFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spokesbot_retrieval_fallbacks_total",
		Help: "Degraded retrieval paths taken (unfiltered, error_recovery)",
	}, []string{"kind"})

	refusalsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spokesbot_refusals_total",
		Help: "Questions answered with the no-context refusal",
	})

	generationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spokesbot_generation_errors_total",
		Help: "Generation calls that failed or timed out",
	})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spokesbot_answer_cache_hits_total",
		Help: "Answers served from the cache",
	})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spokesbot_query_duration_seconds",
		Help:    "End-to-end latency of a query",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"scope"})

	retrievedPassages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "spokesbot_retrieved_passages",
		Help:    "Passages surviving deduplication per query",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 12, 16},
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(queriesTotal, retrievalFallbacks, refusalsTotal,
			generationErrors, cacheHits, queryDuration, retrievedPassages)
	})
}

// IncQuery counts a completed query under its resolved scope.
func IncQuery(scope string) {
	ensureRegistered()
	queriesTotal.WithLabelValues(scope).Inc()
}

// IncFallback counts a degraded retrieval path.
func IncFallback(kind string) {
	ensureRegistered()
	retrievalFallbacks.WithLabelValues(kind).Inc()
}

// IncRefusal counts a no-context refusal.
func IncRefusal() {
	ensureRegistered()
	refusalsTotal.Inc()
}

// IncGenerationError counts a failed generation call.
func IncGenerationError() {
	ensureRegistered()
	generationErrors.Inc()
}

// IncCacheHit counts an answer served from cache.
func IncCacheHit() {
	ensureRegistered()
	cacheHits.Inc()
}

// ObserveQuery records end-to-end latency and passage count for a query.
func ObserveQuery(scope string, start time.Time, passages int) {
	ensureRegistered()
	queryDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	retrievedPassages.Observe(float64(passages))
}
