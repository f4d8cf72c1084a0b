package domain

import (
	"fmt"
	"math"
)

// RateMode selects how a CostRate converts distance into money.
type RateMode string

const (
	// RateFlat charges a fixed amount per kilometre: cost = km × Value.
	RateFlat RateMode = "flat_rate"

	// RateFuel derives cost from fuel consumption: Value is the vehicle's
	// efficiency in km per litre and FuelUnitPrice the price per litre,
	// so cost = km / Value × FuelUnitPrice.
	RateFuel RateMode = "fuel_consumption"
)

// DefaultRate mirrors the front-end's default of 4 baht per kilometre.
var DefaultRate = CostRate{Mode: RateFlat, Value: 4}

// CostRate is the user-configurable conversion from route distance to a
// monetary travel cost. Single implicit currency throughout (baht).
type CostRate struct {
	Mode          RateMode `json:"mode"`
	Value         float64  `json:"value"`
	FuelUnitPrice float64  `json:"fuel_unit_price,omitempty"`
}

// Validate checks the rate for use in an estimate.
// Returns ErrValidation describing the first problem found.
func (r CostRate) Validate() error {
	switch r.Mode {
	case RateFlat:
		if r.Value <= 0 {
			return fmt.Errorf("%w: rate value must be positive", ErrValidation)
		}
	case RateFuel:
		if r.Value <= 0 {
			return fmt.Errorf("%w: fuel efficiency must be positive", ErrValidation)
		}
		if r.FuelUnitPrice <= 0 {
			return fmt.Errorf("%w: fuel unit price must be positive", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown rate mode %q", ErrValidation, r.Mode)
	}
	return nil
}

// Cost converts a distance in kilometres to money under this rate,
// rounded to 2 decimal places.
func (r CostRate) Cost(distanceKm float64) float64 {
	var cost float64
	switch r.Mode {
	case RateFuel:
		cost = distanceKm / r.Value * r.FuelUnitPrice
	default:
		cost = distanceKm * r.Value
	}
	return math.Round(cost*100) / 100
}
