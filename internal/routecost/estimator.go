// Package routecost converts a set of stops and an origin into a monetary
// travel cost. It owns validation and the distance→money conversion; actual
// routing is delegated to an external directions capability.
package routecost

import (
	"context"
	"fmt"
	"math"

	"github.com/kanchai/trip-budget/internal/domain"
)

// Directions is the external routing capability the estimator depends on.
// Given an origin and an ordered list of stops it returns the legs of the
// best route visiting them (driving, provider may reorder via optimization).
// Implementations must return domain.ErrRouteUnavailable when the provider
// reports that no route exists.
type Directions interface {
	Route(ctx context.Context, origin domain.Coordinate, stops []domain.Coordinate) ([]domain.RouteLeg, error)
}

// Estimator computes route cost estimates.
type Estimator struct {
	directions Directions
}

// NewEstimator constructs an Estimator backed by the provided directions capability.
func NewEstimator(d Directions) *Estimator {
	return &Estimator{directions: d}
}

// Estimate validates the input, fetches route legs for origin→stops, and
// converts the total distance into money under the given rate.
//
// Failure modes:
//   - domain.ErrInvalidRouteInput: no stops, or an unusable rate.
//   - domain.ErrOriginUnavailable: origin coordinate missing.
//   - domain.ErrRouteUnavailable: provider found no route. No partial result
//     is returned and nothing is retried here — the user must re-trigger.
func (e *Estimator) Estimate(
	ctx context.Context,
	origin domain.Coordinate,
	stops []domain.Coordinate,
	rate domain.CostRate,
) (domain.RouteEstimate, error) {
	if len(stops) == 0 {
		return domain.RouteEstimate{}, fmt.Errorf(
			"routecost.Estimator.Estimate: at least one stop required: %w", domain.ErrInvalidRouteInput)
	}
	if origin.IsZero() {
		return domain.RouteEstimate{}, fmt.Errorf(
			"routecost.Estimator.Estimate: %w", domain.ErrOriginUnavailable)
	}
	if err := rate.Validate(); err != nil {
		return domain.RouteEstimate{}, fmt.Errorf(
			"routecost.Estimator.Estimate: %v: %w", err, domain.ErrInvalidRouteInput)
	}

	legs, err := e.directions.Route(ctx, origin, stops)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("routecost.Estimator.Estimate: %w", err)
	}

	var meters, seconds int
	for _, leg := range legs {
		meters += leg.DistanceMeters
		seconds += leg.DurationSeconds
	}

	km := float64(meters) / 1000
	return domain.RouteEstimate{
		TotalDistanceKm:      round2(km),
		TotalDurationMinutes: round2(float64(seconds) / 60),
		Cost:                 rate.Cost(km),
		Legs:                 legs,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
