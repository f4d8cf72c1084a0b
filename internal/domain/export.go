package domain

// BudgetRow is a single row in the budget breakdown export.
// It is a flat, denormalized view: one row per checked location, with day
// fields repeated for every location on that day. Each day additionally
// yields one trailing row carrying that day's travel cost and subtotal, and
// the export ends with a grand-total row.
type BudgetRow struct {
	Day int `json:"day"`

	// Location fields — zero values on the per-day subtotal and total rows.
	LocationName  string  `json:"location_name,omitempty"`
	LocationPrice float64 `json:"location_price"`

	// Aggregate fields — zero on plain location rows.
	TravelCost float64 `json:"travel_cost"`
	Subtotal   float64 `json:"subtotal"`

	// Kind distinguishes row types: "location", "day_total", "grand_total".
	Kind string `json:"kind"`
}
