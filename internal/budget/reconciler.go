// Package budget merges per-location prices with route cost estimates into
// per-day and total budget figures, and persists the total through the
// external plan storage API.
//
// The persisted figure is always recomputed here from the selection state
// and estimates — callers cannot pass an arbitrary amount, which keeps the
// stored budget from drifting away from what was displayed.
package budget

import (
	"context"
	"fmt"
	"math"

	"github.com/kanchai/trip-budget/internal/domain"
)

// PlanStore is the single write this package performs against the external
// plan storage API. Defined here, in the consumer package, so tests can
// inject a mock without touching the HTTP client.
type PlanStore interface {
	// UpdateBudget overwrites the plan's stored budget scalar.
	// The write is idempotent: repeating it leaves the same value.
	UpdateBudget(ctx context.Context, token string, planID int64, amount float64) error
}

// DayInput is the reconciler's view of one day: the locations currently
// checked for cost calculation and that day's route travel cost (zero when
// no estimate has been computed).
type DayInput struct {
	Day        int
	Locations  []domain.Location
	TravelCost float64
}

// DayBudget is the computed figure for one day.
type DayBudget struct {
	Day           int     `json:"day"`
	LocationTotal float64 `json:"location_total"`
	TravelCost    float64 `json:"travel_cost"`
	Total         float64 `json:"total"`
}

// Breakdown is the full budget picture for a plan: one entry per day plus
// the grand total that gets persisted.
type Breakdown struct {
	Days  []DayBudget `json:"days"`
	Total float64     `json:"total"`
}

// SumLocationPrices sums location prices. Zero for empty input. No currency
// conversion — a single implicit currency throughout.
func SumLocationPrices(locations []domain.Location) float64 {
	var sum float64
	for _, loc := range locations {
		sum += loc.Price
	}
	return round2(sum)
}

// Compute builds the per-day budgets and grand total from day inputs.
// Per-day aggregation is the primary mode; a plan with a single global
// route cost is just the one-day case.
func Compute(inputs []DayInput) Breakdown {
	b := Breakdown{Days: make([]DayBudget, 0, len(inputs))}
	for _, in := range inputs {
		day := DayBudget{
			Day:           in.Day,
			LocationTotal: SumLocationPrices(in.Locations),
			TravelCost:    round2(in.TravelCost),
		}
		day.Total = round2(day.LocationTotal + day.TravelCost)
		b.Days = append(b.Days, day)
		b.Total = round2(b.Total + day.Total)
	}
	return b
}

// Rows flattens day inputs into export rows: one row per checked location,
// a day_total row per day, and a trailing grand_total row.
func Rows(inputs []DayInput) []domain.BudgetRow {
	var rows []domain.BudgetRow
	var grand float64
	for _, in := range inputs {
		for _, loc := range in.Locations {
			rows = append(rows, domain.BudgetRow{
				Day:           in.Day,
				LocationName:  loc.Name,
				LocationPrice: loc.Price,
				Kind:          "location",
			})
		}
		subtotal := round2(SumLocationPrices(in.Locations) + in.TravelCost)
		rows = append(rows, domain.BudgetRow{
			Day:        in.Day,
			TravelCost: round2(in.TravelCost),
			Subtotal:   subtotal,
			Kind:       "day_total",
		})
		grand = round2(grand + subtotal)
	}
	rows = append(rows, domain.BudgetRow{Subtotal: grand, Kind: "grand_total"})
	return rows
}

// Reconciler persists computed budgets through the plan storage API.
type Reconciler struct {
	store PlanStore
}

// NewReconciler constructs a Reconciler backed by the provided PlanStore.
func NewReconciler(store PlanStore) *Reconciler {
	return &Reconciler{store: store}
}

// Persist recomputes the total from the given day inputs and writes it to
// plan storage. Returns the persisted total. On failure the error carries
// domain.ErrPersistenceFailure and no local state has been touched, so the
// caller can retry with the same inputs.
func (r *Reconciler) Persist(ctx context.Context, token string, planID int64, inputs []DayInput) (float64, error) {
	total := Compute(inputs).Total
	if err := r.store.UpdateBudget(ctx, token, planID, total); err != nil {
		return 0, fmt.Errorf("budget.Reconciler.Persist: %w", err)
	}
	return total, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
