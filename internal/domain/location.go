package domain

// Location is a point of interest: an attraction, café, or stay.
// It is immutable from this service's perspective — fetched from plan
// storage, never mutated. Price may be zero (free attractions).
type Location struct {
	ID       int64   `json:"location_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Lat      float64 `json:"latitude"`
	Lng      float64 `json:"longitude"`
	Category string  `json:"category,omitempty"`
}

// Coord returns the location's position as a Coordinate.
func (l Location) Coord() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}
