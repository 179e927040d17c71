package observability

import (
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	advisorCalls    *prometheus.CounterVec
	optimizations   prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardwise_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_advisor_tokens_total",
				Help: "Total advisor tokens consumed.",
			},
			[]string{"type"},
		),
		advisorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardwise_advisor_calls_total",
				Help: "Total advisor calls by outcome.",
			},
			[]string{"outcome"},
		),
		optimizations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cardwise_optimizations_total",
				Help: "Total optimization runs.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrAdvisorCall increments the advisor call counter with an outcome
// label ("success", "error" or "fallback").
func (m *Metrics) IncrAdvisorCall(outcome string) {
	m.advisorCalls.WithLabelValues(outcome).Inc()
}

// IncrOptimization counts one optimization run.
func (m *Metrics) IncrOptimization() {
	m.optimizations.Inc()
}

// GetAdvisorSnapshot returns a snapshot of advisor-related metrics
// suitable for the GET /v1/metrics/advisor endpoint.
func (m *Metrics) GetAdvisorSnapshot() *domain.AdvisorMetrics {
	// Prometheus counters expose cumulative values.
	promptTokens := getCounterValue(m.tokensUsed, "prompt")
	completionTokens := getCounterValue(m.tokensUsed, "completion")
	successCount := getCounterValue(m.advisorCalls, "success")
	errorCount := getCounterValue(m.advisorCalls, "error")
	fallbackCount := getCounterValue(m.advisorCalls, "fallback")
	totalCalls := successCount + errorCount + fallbackCount

	totalTokens := promptTokens + completionTokens
	avgTokens := float64(0)
	errorRate := float64(0)
	fallbackRate := float64(0)
	if totalCalls > 0 {
		avgTokens = totalTokens / totalCalls
		errorRate = errorCount / totalCalls
		fallbackRate = fallbackCount / totalCalls
	}

	return &domain.AdvisorMetrics{
		TotalCalls:      int64(totalCalls),
		ErrorRate:       errorRate,
		FallbackRate:    fallbackRate,
		TotalTokens:     int64(totalTokens),
		AvgTokensPerUse: avgTokens,
		Period:          "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
