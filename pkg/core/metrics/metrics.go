// Package metrics exposes Prometheus counters for the ingestion pipeline.
// The serve command publishes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistryCalls counts outbound registry calls by outcome:
	// ok, http_error, transport_error, malformed.
	RegistryCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dart",
		Name:      "registry_calls_total",
		Help:      "Outbound DART registry calls by outcome.",
	}, []string{"outcome"})

	// CacheHits counts resolver lookups satisfied by a cached consolidated
	// statement, i.e. external calls avoided.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dart",
		Name:      "cache_hits_total",
		Help:      "Statement resolutions served from the consolidated cache.",
	})

	// QuotaRejections counts fetch attempts refused because the daily call
	// budget was exhausted.
	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dart",
		Name:      "quota_rejections_total",
		Help:      "Fetch attempts rejected by the daily call budget.",
	})
)
