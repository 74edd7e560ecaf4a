package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels a successful attempt; failures are labelled with their error kind.
const OutcomeOK = "ok"

var (
	// ConnectTotal counts connect attempts by outcome (ok or an error kind).
	ConnectTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "connect_total",
		Help:      "Wallet connect attempts by outcome.",
	}, []string{"outcome"})

	// FetchTotal counts account data fetches by strategy and outcome.
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "fetch_total",
		Help:      "Account data fetches by transaction strategy and outcome.",
	}, []string{"strategy", "outcome"})

	// FetchDuration observes how long account data fetches take.
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wallet",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of account data fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})

	// StaleResultsTotal counts fetch results dropped because a newer fetch started.
	StaleResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "stale_results_total",
		Help:      "Fetch results discarded because the session moved on.",
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ConnectTotal, FetchTotal, FetchDuration, StaleResultsTotal)
	})
}
