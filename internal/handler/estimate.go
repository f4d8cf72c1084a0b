package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/metrics"
)

// estimateRequest is the body for POST .../estimate. The rate is optional;
// omitting it uses the flat default rate.
type estimateRequest struct {
	Origin *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"origin"`
	Rate *domain.CostRate `json:"rate"`
}

// EstimateDay handles POST /sessions/{sessionID}/days/{dayIndex}/estimate.
// It runs the route cost estimator over the day's checked locations in
// assignment order, records the result on the session, and returns it.
func (s *Server) EstimateDay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	var body estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestError(w, "request body is required")
		return
	}

	var origin domain.Coordinate
	if body.Origin != nil {
		origin = domain.Coordinate{Lat: body.Origin.Lat, Lng: body.Origin.Lng}
	}
	rate := domain.DefaultRate
	if body.Rate != nil {
		rate = *body.Rate
	}

	checked, err := sess.CheckedLocations(dayIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stops := make([]domain.Coordinate, len(checked))
	for i, loc := range checked {
		stops[i] = loc.Coord()
	}

	est, err := s.estimator.Estimate(r.Context(), origin, stops, rate)
	if err != nil {
		metrics.EstimatesTotal.WithLabelValues(estimateOutcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}
	metrics.EstimatesTotal.WithLabelValues("ok").Inc()

	if err := sess.SetEstimate(dayIndex, est); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, est)
}

func estimateOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRouteInput), errors.Is(err, domain.ErrOriginUnavailable):
		return "invalid_input"
	case errors.Is(err, domain.ErrRouteUnavailable):
		return "route_unavailable"
	default:
		return "error"
	}
}
