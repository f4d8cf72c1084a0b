package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanchai/trip-budget/internal/domain"
)

func TestEstimateDay_200_EstimatesCheckedStopsInOrder(t *testing.T) {
	h := newHarness()
	sess := h.seedSession(t, twoDayPlan())

	want := domain.RouteEstimate{TotalDistanceKm: 33, TotalDurationMinutes: 40, Cost: 165}
	h.estimator.estimate = func(_ context.Context, origin domain.Coordinate, stops []domain.Coordinate, rate domain.CostRate) (domain.RouteEstimate, error) {
		assert.Equal(t, domain.Coordinate{Lat: 16.4321, Lng: 102.8236}, origin)
		require.Len(t, stops, 2)
		assert.Equal(t, domain.Coordinate{Lat: 16.4048, Lng: 102.8350}, stops[0])
		assert.Equal(t, domain.Coordinate{Lat: 16.5500, Lng: 102.6000}, stops[1])
		assert.Equal(t, domain.CostRate{Mode: domain.RateFlat, Value: 5}, rate)
		return want, nil
	}

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/sessions/%s/days/1/estimate", sess.ID),
		map[string]any{
			"origin": map[string]float64{"lat": 16.4321, "lng": 102.8236},
			"rate":   map[string]any{"mode": "flat_rate", "value": 5},
		})

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.RouteEstimate
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, want, got)

	// The estimate must survive in the stored session for later budget reads.
	stored, err := h.store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	est, ok := stored.Estimate(1)
	require.True(t, ok)
	assert.Equal(t, want.Cost, est.Cost)
}

func TestEstimateDay_DefaultRateWhenOmitted(t *testing.T) {
	h := newHarness()
	sess := h.seedSession(t, twoDayPlan())

	h.estimator.estimate = func(_ context.Context, _ domain.Coordinate, _ []domain.Coordinate, rate domain.CostRate) (domain.RouteEstimate, error) {
		assert.Equal(t, domain.DefaultRate, rate)
		return domain.RouteEstimate{Cost: 10}, nil
	}

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/sessions/%s/days/1/estimate", sess.ID),
		map[string]any{
			"origin": map[string]float64{"lat": 16.4321, "lng": 102.8236},
		})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEstimateDay_422_MissingOrigin(t *testing.T) {
	h := newHarness()
	sess := h.seedSession(t, twoDayPlan())

	h.estimator.estimate = func(_ context.Context, origin domain.Coordinate, _ []domain.Coordinate, _ domain.CostRate) (domain.RouteEstimate, error) {
		require.True(t, origin.IsZero())
		return domain.RouteEstimate{}, fmt.Errorf("routecost.Estimator.Estimate: %w", domain.ErrOriginUnavailable)
	}

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/sessions/%s/days/1/estimate", sess.ID),
		map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestEstimateDay_502_NoRoute(t *testing.T) {
	h := newHarness()
	sess := h.seedSession(t, twoDayPlan())

	h.estimator.estimate = func(_ context.Context, _ domain.Coordinate, _ []domain.Coordinate, _ domain.CostRate) (domain.RouteEstimate, error) {
		return domain.RouteEstimate{}, fmt.Errorf("directions: %w", domain.ErrRouteUnavailable)
	}

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/sessions/%s/days/1/estimate", sess.ID),
		map[string]any{
			"origin": map[string]float64{"lat": 16.4321, "lng": 102.8236},
		})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "route_unavailable", errorCode(t, rec))

	// A failed estimate must not leave a stale result on the session.
	stored, err := h.store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	_, ok := stored.Estimate(1)
	assert.False(t, ok)
}
