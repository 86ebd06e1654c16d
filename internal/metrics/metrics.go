package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_calculations_total",
			Help: "Pricing calculations by channel type and outcome",
		},
		[]string{"channel_type", "outcome"},
	)

	CalculationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_calculation_duration_seconds",
			Help:    "Time spent in one pricing calculation, lookups included",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLookupUnmatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rate_lookup_unmatched_total",
			Help: "Rate table lookups that found no band",
		},
		[]string{"table"},
	)

	RateCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rate_cache_hits_total",
			Help: "Rate table lookups served from the band cache",
		},
		[]string{"table"},
	)

	CalculationLogsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_calculation_logs_saved_total",
			Help: "Calculation logs persisted",
		},
	)
)

// Outcome labels for CalculationsTotal.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeValidation = "invalid"
	OutcomeError      = "error"
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(CalculationsTotal)
		prometheus.MustRegister(CalculationDuration)
		prometheus.MustRegister(RateLookupUnmatched)
		prometheus.MustRegister(RateCacheHits)
		prometheus.MustRegister(CalculationLogsSaved)
	})
}
