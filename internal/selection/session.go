// Package selection implements the selection model for trip planning:
// which locations are assigned to which day of a plan, and which of those
// are currently checked for cost calculation.
//
// State lives in a Session, a per-plan scratchpad owned by a single user.
// Sessions are persisted whole through a Store; there is no cross-session
// merge — the last write wins.
package selection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kanchai/trip-budget/internal/domain"
)

// Session is the editable selection state for one plan.
// Catalog holds every location known to the plan so assignment by ID can
// recover the full location (price, coordinates) without refetching the plan.
type Session struct {
	ID        uuid.UUID `json:"session_id"`
	PlanID    int64     `json:"plan_id"`
	OwnerID   int64     `json:"owner_id"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`

	Catalog map[int64]domain.Location `json:"catalog"`

	// Estimates are the per-day route cost results, keyed by day index.
	// They are invalidated implicitly: recomputing a day overwrites its entry.
	Estimates map[int]domain.RouteEstimate `json:"estimates,omitempty"`
}

// Day is the selection state for one day of the plan.
// Checked is always a subset of Assigned; operations maintain this invariant.
type Day struct {
	DayID    int64              `json:"day_id"`
	Index    int                `json:"day"`
	Assigned []domain.Location  `json:"assigned"`
	Checked  map[int64]struct{} `json:"checked"`
}

// New seeds a session from a fetched plan: every location the plan storage
// API reports for a day starts out assigned to that day and checked, matching
// the front-end behaviour of including everything in the first calculation.
func New(plan domain.Plan) *Session {
	s := &Session{
		ID:        uuid.New(),
		PlanID:    plan.ID,
		OwnerID:   plan.OwnerID,
		CreatedAt: time.Now().UTC(),
		Catalog:   make(map[int64]domain.Location),
		Estimates: make(map[int]domain.RouteEstimate),
	}
	for _, d := range plan.Days {
		day := Day{
			DayID:    d.ID,
			Index:    d.Index,
			Assigned: append([]domain.Location(nil), d.Locations...),
			Checked:  make(map[int64]struct{}, len(d.Locations)),
		}
		for _, loc := range d.Locations {
			day.Checked[loc.ID] = struct{}{}
			s.Catalog[loc.ID] = loc
		}
		s.Days = append(s.Days, day)
	}
	return s
}

// Day returns a pointer to the state for the given 1-based day index.
// Returns domain.ErrNotFound when the session has no such day.
func (s *Session) Day(index int) (*Day, error) {
	for i := range s.Days {
		if s.Days[i].Index == index {
			return &s.Days[i], nil
		}
	}
	return nil, fmt.Errorf("selection.Session.Day: day %d: %w", index, domain.ErrNotFound)
}

// Assign adds a catalog location to a day's assigned set and checks it.
// A location already assigned to a different day is rejected with
// domain.ErrDuplicateAssignment rather than silently moved; assigning a
// location already on the same day is a no-op.
func (s *Session) Assign(dayIndex int, locationID int64) error {
	day, err := s.Day(dayIndex)
	if err != nil {
		return err
	}
	loc, ok := s.Catalog[locationID]
	if !ok {
		return fmt.Errorf("selection.Session.Assign: location %d: %w", locationID, domain.ErrNotFound)
	}

	for i := range s.Days {
		if s.Days[i].has(locationID) {
			if s.Days[i].Index == dayIndex {
				return nil
			}
			return fmt.Errorf("selection.Session.Assign: location %d already on day %d: %w",
				locationID, s.Days[i].Index, domain.ErrDuplicateAssignment)
		}
	}

	day.Assigned = append(day.Assigned, loc)
	day.Checked[loc.ID] = struct{}{}
	return nil
}

// Unassign removes a location from a day's assigned and checked sets.
// Removing a location that is not assigned is a no-op; the returned bool
// reports whether anything changed.
func (s *Session) Unassign(dayIndex int, locationID int64) (bool, error) {
	day, err := s.Day(dayIndex)
	if err != nil {
		return false, err
	}
	for i, loc := range day.Assigned {
		if loc.ID == locationID {
			day.Assigned = append(day.Assigned[:i], day.Assigned[i+1:]...)
			delete(day.Checked, locationID)
			return true, nil
		}
	}
	return false, nil
}

// ToggleChecked flips a location's inclusion in cost calculation.
// Toggling a location not assigned to the day is a soft failure: the session
// is unchanged and applied is false. Assignment itself is unaffected either way.
func (s *Session) ToggleChecked(dayIndex int, locationID int64) (applied bool, err error) {
	day, err := s.Day(dayIndex)
	if err != nil {
		return false, err
	}
	if !day.has(locationID) {
		return false, nil
	}
	if _, checked := day.Checked[locationID]; checked {
		delete(day.Checked, locationID)
	} else {
		day.Checked[locationID] = struct{}{}
	}
	return true, nil
}

// CheckAll marks every assigned location on the day for cost calculation.
func (s *Session) CheckAll(dayIndex int) error {
	day, err := s.Day(dayIndex)
	if err != nil {
		return err
	}
	for _, loc := range day.Assigned {
		day.Checked[loc.ID] = struct{}{}
	}
	return nil
}

// ClearAll removes every location on the day from cost calculation.
// Assignments are untouched.
func (s *Session) ClearAll(dayIndex int) error {
	day, err := s.Day(dayIndex)
	if err != nil {
		return err
	}
	day.Checked = make(map[int64]struct{})
	return nil
}

// CheckedLocations returns the day's checked locations in assignment order.
func (s *Session) CheckedLocations(dayIndex int) ([]domain.Location, error) {
	day, err := s.Day(dayIndex)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Location, 0, len(day.Checked))
	for _, loc := range day.Assigned {
		if _, ok := day.Checked[loc.ID]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

// SetEstimate records the route cost result for a day, replacing any
// previous estimate for that day.
func (s *Session) SetEstimate(dayIndex int, est domain.RouteEstimate) error {
	if _, err := s.Day(dayIndex); err != nil {
		return err
	}
	if s.Estimates == nil {
		s.Estimates = make(map[int]domain.RouteEstimate)
	}
	s.Estimates[dayIndex] = est
	return nil
}

// Estimate returns the recorded route cost result for a day, if any.
func (s *Session) Estimate(dayIndex int) (domain.RouteEstimate, bool) {
	est, ok := s.Estimates[dayIndex]
	return est, ok
}

func (d *Day) has(locationID int64) bool {
	for _, loc := range d.Assigned {
		if loc.ID == locationID {
			return true
		}
	}
	return false
}
