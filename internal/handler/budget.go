package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/kanchai/trip-budget/internal/budget"
	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/metrics"
	"github.com/kanchai/trip-budget/internal/selection"
)

// csvHeaders defines the column names written as the first row of a CSV
// budget export.
var csvHeaders = []string{
	"day", "location_name", "location_price", "travel_cost", "subtotal", "kind",
}

// GetBudget handles GET /sessions/{sessionID}/budget.
// It computes the per-day and total budget from the session's checked
// locations and recorded estimates. Use ?format=csv for a flat CSV breakdown;
// default is JSON.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}

	inputs := dayInputs(sess)

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, budget.Rows(inputs))
		return
	}

	writeJSON(w, http.StatusOK, budget.Compute(inputs))
}

// PersistBudget handles POST /sessions/{sessionID}/budget.
// The total is always recomputed from the session state; the endpoint takes
// no body, so a client can never write an arbitrary figure.
func (s *Server) PersistBudget(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	_, token, _ := authContext(r)

	total, err := s.budgets.Persist(r.Context(), token, sess.PlanID, dayInputs(sess))
	if err != nil {
		metrics.BudgetPersists.WithLabelValues("failed").Inc()
		s.writeError(w, r, err)
		return
	}
	metrics.BudgetPersists.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, struct {
		PlanID int64   `json:"plan_id"`
		Budget float64 `json:"budget"`
	}{PlanID: sess.PlanID, Budget: total})
}

// dayInputs builds the reconciler's view of the session: per day, the checked
// locations in assignment order and the recorded travel cost (zero when the
// day has no estimate).
func dayInputs(sess *selection.Session) []budget.DayInput {
	inputs := make([]budget.DayInput, 0, len(sess.Days))
	for _, d := range sess.Days {
		checked, err := sess.CheckedLocations(d.Index)
		if err != nil {
			continue
		}
		var travel float64
		if est, ok := sess.Estimate(d.Index); ok {
			travel = est.Cost
		}
		inputs = append(inputs, budget.DayInput{
			Day:        d.Index,
			Locations:  checked,
			TravelCost: travel,
		})
	}
	return inputs
}

// writeCSV encodes budget rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.BudgetRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// rowToCSVRecord encodes a budget row as a flat string slice.
// Money columns that do not apply to the row's kind are left empty.
func rowToCSVRecord(row domain.BudgetRow) []string {
	day := ""
	if row.Kind != "grand_total" {
		day = strconv.Itoa(row.Day)
	}
	price, travel, subtotal := "", "", ""
	switch row.Kind {
	case "location":
		price = formatMoney(row.LocationPrice)
	case "day_total":
		travel = formatMoney(row.TravelCost)
		subtotal = formatMoney(row.Subtotal)
	case "grand_total":
		subtotal = formatMoney(row.Subtotal)
	}
	return []string{day, row.LocationName, price, travel, subtotal, row.Kind}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
