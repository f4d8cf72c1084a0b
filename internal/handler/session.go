package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/middleware"
	"github.com/kanchai/trip-budget/internal/selection"
)

// CreateSession handles POST /sessions.
// It fetches the plan from plan storage (enforcing ownership), seeds a
// selection session from the plan's days and locations, and persists it.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := authContext(r)
	if !ok {
		unauthorized(w)
		return
	}

	var body struct {
		PlanID int64 `json:"plan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestError(w, "request body is required")
		return
	}
	if body.PlanID <= 0 {
		requestError(w, "plan_id is required")
		return
	}

	plan, err := s.plans.GetPlan(r.Context(), token, userID, body.PlanID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := selection.New(plan)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionToView(sess))
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionToView(sess))
}

// AssignLocation handles POST /sessions/{sessionID}/days/{dayIndex}/locations.
// A location already assigned to another day is rejected with 409 rather than
// moved; re-assigning to the same day is a no-op.
func (s *Server) AssignLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	var body struct {
		LocationID int64 `json:"location_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestError(w, "request body is required")
		return
	}
	if body.LocationID <= 0 {
		requestError(w, "location_id is required")
		return
	}

	if err := sess.Assign(dayIndex, body.LocationID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToView(sess))
}

// UnassignLocation handles
// DELETE /sessions/{sessionID}/days/{dayIndex}/locations/{locationID}.
// The removal is forwarded to plan storage so the stored plan and the
// session stay in step; a location plan storage no longer has is still
// removed locally.
func (s *Server) UnassignLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	_, token, _ := authContext(r)
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	locationID, err := strconv.ParseInt(chi.URLParam(r, "locationID"), 10, 64)
	if err != nil {
		requestError(w, "locationID must be an integer")
		return
	}

	day, err := sess.Day(dayIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.plans.RemoveDayLocation(r.Context(), token, sess.PlanID, day.DayID, locationID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, r, err)
			return
		}
	}

	if _, err := sess.Unassign(dayIndex, locationID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToView(sess))
}

// ToggleChecked handles POST /sessions/{sessionID}/days/{dayIndex}/checked.
// Toggling a location not assigned to the day is a soft no-op: 200 with
// applied=false and a warning, no state change.
func (s *Server) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	var body struct {
		LocationID int64 `json:"location_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		requestError(w, "request body is required")
		return
	}

	applied, err := sess.ToggleChecked(dayIndex, body.LocationID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := struct {
		Applied bool   `json:"applied"`
		Warning string `json:"warning,omitempty"`
	}{Applied: applied}

	if applied {
		if err := s.sessions.Save(r.Context(), sess); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		resp.Warning = fmt.Sprintf("location %d is not assigned to day %d", body.LocationID, dayIndex)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CheckAll handles POST /sessions/{sessionID}/days/{dayIndex}/check-all.
func (s *Server) CheckAll(w http.ResponseWriter, r *http.Request) {
	s.bulkChecked(w, r, (*selection.Session).CheckAll)
}

// ClearAll handles POST /sessions/{sessionID}/days/{dayIndex}/clear-all.
func (s *Server) ClearAll(w http.ResponseWriter, r *http.Request) {
	s.bulkChecked(w, r, (*selection.Session).ClearAll)
}

func (s *Server) bulkChecked(w http.ResponseWriter, r *http.Request, op func(*selection.Session, int) error) {
	sess, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	if err := op(sess, dayIndex); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToView(sess))
}

// --- shared helpers ---------------------------------------------------------

// authContext extracts the authenticated user ID and raw token set by the
// auth middleware.
func authContext(r *http.Request) (userID int64, token string, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, "", false
	}
	token, ok = middleware.TokenFromContext(r.Context())
	if !ok {
		return 0, "", false
	}
	return userID, token, true
}

// loadOwnedSession resolves {sessionID}, loads the session, and verifies the
// caller owns it. On any failure it writes the response and returns ok=false.
func (s *Server) loadOwnedSession(w http.ResponseWriter, r *http.Request) (*selection.Session, bool) {
	userID, _, ok := authContext(r)
	if !ok {
		unauthorized(w)
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		requestError(w, "sessionID must be a UUID")
		return nil, false
	}

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if sess.OwnerID != userID {
		s.writeError(w, r, fmt.Errorf("session %s: %w", id, domain.ErrForbidden))
		return nil, false
	}
	return sess, true
}

func dayIndexParam(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "dayIndex"))
	if err != nil || idx < 1 {
		return 0, errors.New("dayIndex must be a positive integer")
	}
	return idx, nil
}

// --- response views ---------------------------------------------------------

type sessionView struct {
	SessionID string    `json:"session_id"`
	PlanID    int64     `json:"plan_id"`
	Days      []dayView `json:"days"`
}

type dayView struct {
	Day      int                   `json:"day"`
	DayID    int64                 `json:"day_id"`
	Assigned []locationView        `json:"assigned"`
	Estimate *domain.RouteEstimate `json:"estimate,omitempty"`
}

type locationView struct {
	LocationID int64   `json:"location_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category,omitempty"`
	Checked    bool    `json:"checked"`
}

// sessionToView flattens a session into the API shape: assignment order is
// preserved and the checked set becomes a per-location flag.
func sessionToView(s *selection.Session) sessionView {
	view := sessionView{
		SessionID: s.ID.String(),
		PlanID:    s.PlanID,
		Days:      make([]dayView, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		dv := dayView{
			Day:      d.Index,
			DayID:    d.DayID,
			Assigned: make([]locationView, 0, len(d.Assigned)),
		}
		for _, loc := range d.Assigned {
			_, checked := d.Checked[loc.ID]
			dv.Assigned = append(dv.Assigned, locationView{
				LocationID: loc.ID,
				Name:       loc.Name,
				Price:      loc.Price,
				Category:   loc.Category,
				Checked:    checked,
			})
		}
		if est, ok := s.Estimate(d.Index); ok {
			e := est
			dv.Estimate = &e
		}
		view.Days = append(view.Days, dv)
	}
	return view
}
