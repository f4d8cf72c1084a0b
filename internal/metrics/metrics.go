// Package metrics exposes the service's Prometheus collectors.
// Collectors are registered on the default registry via promauto; serve them
// with Handler() on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EstimatesTotal counts route cost estimates, labelled by outcome
	// ("ok", "invalid_input", "route_unavailable", "error").
	EstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripbudget_estimates_total",
		Help: "Route cost estimates computed, by outcome.",
	}, []string{"outcome"})

	// DirectionsRequests counts calls to the external directions provider,
	// labelled by the provider status string ("OK", "ZERO_RESULTS", ...).
	DirectionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripbudget_directions_requests_total",
		Help: "Requests issued to the directions provider, by provider status.",
	}, []string{"status"})

	// RouteCacheHits counts route lookups answered from the Postgres cache.
	RouteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripbudget_route_cache_hits_total",
		Help: "Route lookups served from the route cache.",
	})

	// RouteCacheMisses counts route lookups that fell through to the provider.
	RouteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripbudget_route_cache_misses_total",
		Help: "Route lookups that required a directions provider call.",
	})

	// BudgetPersists counts budget writes to plan storage, by outcome
	// ("ok", "failed").
	BudgetPersists = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripbudget_budget_persists_total",
		Help: "Budget writes to the plan storage API, by outcome.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
