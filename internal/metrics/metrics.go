// Package metrics holds the Prometheus collectors shared by the data-access layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "music_library"

var (
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Read cache lookups by key and result (hit or miss).",
	}, []string{"key", "result"})

	QueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_errors_total",
		Help:      "Statements rejected by storage, by intent and violated constraint.",
	}, []string{"intent", "constraint"})

	TransactionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "transactions_total",
		Help:      "Finished transactions by strategy (local or scope) and outcome.",
	}, []string{"strategy", "outcome"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
