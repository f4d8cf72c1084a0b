// Package domain contains the core data types for the trip budget service.
// This package has zero external dependencies and is imported by every other
// internal package (selection, routecost, budget, planapi, handler).
package domain

// Plan is a user-owned multi-day travel itinerary. It is owned by the
// external plan storage API; this service only reads it and writes back a
// single budget figure. IDs are the storage API's numeric identifiers.
type Plan struct {
	ID      int64     `json:"plan_id"`
	Name    string    `json:"name"`
	OwnerID int64     `json:"user_id"`
	Budget  *float64  `json:"budget,omitempty"` // nil until first computed
	Days    []PlanDay `json:"days"`
}

// PlanDay is one day within a plan. Index is 1-based and unique per plan.
type PlanDay struct {
	ID        int64      `json:"day_id"`
	Index     int        `json:"day"`
	Locations []Location `json:"locations"`
}

// DayByIndex returns the day with the given 1-based index, or false when the
// plan has no such day.
func (p Plan) DayByIndex(idx int) (PlanDay, bool) {
	for _, d := range p.Days {
		if d.Index == idx {
			return d, true
		}
	}
	return PlanDay{}, false
}

// OwnedBy reports whether the plan belongs to the given user.
// Every read and write path must check this before acting on a plan.
func (p Plan) OwnedBy(userID int64) bool {
	return p.OwnerID == userID
}
