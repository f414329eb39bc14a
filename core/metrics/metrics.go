package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reasons recorded on FullReloads.
const (
	ReasonDetached    = "detached"
	ReasonInterrupted = "interrupted"
	ReasonRequested   = "requested"
)

// Outcomes recorded on Fetches.
const (
	OutcomeFetched = "fetched"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
)

var (
	// StagesApplied counts stages delivered to a surface as a batch.
	StagesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffing_stages_applied_total",
			Help: "Stages applied to a surface as batched updates",
		},
		[]string{"board"},
	)

	// FullReloads counts reloads issued instead of, or in place of the rest of, a staged apply.
	FullReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffing_full_reloads_total",
			Help: "Full surface reloads",
		},
		[]string{"board", "reason"},
	)

	// StaleDrops counts requests abandoned because a newer one began.
	StaleDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffing_stale_drops_total",
			Help: "Reconciliations dropped by the generation fence",
		},
		[]string{"board"},
	)

	// BatchFailures counts batches the surface rejected.
	BatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffing_batch_failures_total",
			Help: "Batched updates rejected by a surface",
		},
		[]string{"board"},
	)

	// Fetches counts catalog category fetches by outcome.
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffing_fetch_total",
			Help: "Catalog category fetches",
		},
		[]string{"category", "outcome"},
	)

	// ComputeDuration observes changeset computation time.
	ComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diffing_compute_seconds",
			Help:    "Time spent computing staged changesets",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
