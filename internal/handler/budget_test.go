package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanchai/trip-budget/internal/budget"
	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/selection"
)

// seedWithEstimate stores a two-day session where day 1 carries a 50.00
// travel cost estimate. Checked prices: day 1 [100, 250], day 2 [0].
// Expected total: 400.00.
func seedWithEstimate(t *testing.T, h *harness) *selection.Session {
	t.Helper()
	sess := selection.New(twoDayPlan())
	require.NoError(t, sess.SetEstimate(1, domain.RouteEstimate{TotalDistanceKm: 10, Cost: 50}))
	require.NoError(t, h.store.Save(context.Background(), sess))
	return sess
}

func TestGetBudget_200_PerDayBreakdown(t *testing.T) {
	h := newHarness()
	sess := seedWithEstimate(t, h)

	rec := h.do(t, http.MethodGet, fmt.Sprintf("/sessions/%s/budget", sess.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got budget.Breakdown
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	require.Len(t, got.Days, 2)
	assert.Equal(t, 350.0, got.Days[0].LocationTotal)
	assert.Equal(t, 50.0, got.Days[0].TravelCost)
	assert.Equal(t, 400.0, got.Days[0].Total)
	assert.Equal(t, 0.0, got.Days[1].Total)
	assert.Equal(t, 400.0, got.Total)
}

func TestGetBudget_CSV(t *testing.T) {
	h := newHarness()
	sess := seedWithEstimate(t, h)

	rec := h.do(t, http.MethodGet, fmt.Sprintf("/sessions/%s/budget?format=csv", sess.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "day,location_name,location_price,travel_cost,subtotal,kind", lines[0])
	// 3 location rows + 2 day_total rows + 1 grand_total row.
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "Wat Nong Wang")
	assert.Contains(t, lines[len(lines)-1], "grand_total")
	assert.Contains(t, lines[len(lines)-1], "400.00")
}

func TestPersistBudget_200_RecomputesFromSession(t *testing.T) {
	h := newHarness()
	sess := seedWithEstimate(t, h)

	h.budgets.persist = func(_ context.Context, token string, planID int64, inputs []budget.DayInput) (float64, error) {
		assert.NotEmpty(t, token)
		assert.Equal(t, int64(7), planID)
		require.Len(t, inputs, 2)
		assert.Equal(t, 50.0, inputs[0].TravelCost)
		require.Len(t, inputs[0].Locations, 2)
		return 400, nil
	}

	rec := h.do(t, http.MethodPost, fmt.Sprintf("/sessions/%s/budget", sess.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PlanID int64   `json:"plan_id"`
		Budget float64 `json:"budget"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.PlanID)
	assert.Equal(t, 400.0, resp.Budget)
}

func TestPersistBudget_502_PlanStorageDown(t *testing.T) {
	h := newHarness()
	sess := seedWithEstimate(t, h)

	h.budgets.persist = func(_ context.Context, _ string, _ int64, _ []budget.DayInput) (float64, error) {
		return 0, fmt.Errorf("status 503: %w", domain.ErrPersistenceFailure)
	}

	rec := h.do(t, http.MethodPost, fmt.Sprintf("/sessions/%s/budget", sess.ID), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "persistence_failure", errorCode(t, rec))
}
