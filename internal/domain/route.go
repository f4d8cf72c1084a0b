package domain

// Coordinate is an immutable geographic position (latitude, longitude).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the coordinate was never set. (0,0) is in the Gulf
// of Guinea, far from any plannable location, so the zero value doubles as
// "absent".
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// RouteLeg is one provider-computed segment between two consecutive stops.
// Legs are ephemeral: they are returned for display and folded into totals,
// never persisted as domain state.
type RouteLeg struct {
	Start           Coordinate `json:"start"`
	End             Coordinate `json:"end"`
	DistanceMeters  int        `json:"distance_meters"`
	DurationSeconds int        `json:"duration_seconds"`
}

// RouteEstimate is the result of one route cost calculation: total distance,
// total duration, the monetary travel cost under the applied rate, and the
// per-leg breakdown. Constructed fresh on every calculation and discarded
// after being folded into a persisted budget or shown to the user.
type RouteEstimate struct {
	TotalDistanceKm      float64    `json:"total_distance_km"`
	TotalDurationMinutes float64    `json:"total_duration_minutes"`
	Cost                 float64    `json:"cost"`
	Legs                 []RouteLeg `json:"legs"`
}
