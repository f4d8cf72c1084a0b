// Package planapi is the HTTP client for the external plan storage API —
// the tourism backend that owns all plan, day, and location state. This
// service reads plans from it and writes back exactly one thing: the
// computed budget scalar.
//
// The caller's bearer token is forwarded verbatim on every request; this
// service holds no credentials of its own for the backend.
package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kanchai/trip-budget/internal/domain"
)

// Client talks to the plan storage REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client for the given base URL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// --- wire types -------------------------------------------------------------

// The backend serializes coordinates as strings, so the wire types keep them
// as strings and parsing happens in the mapping step.
type planEnvelope struct {
	Plan struct {
		PlanID   int64     `json:"planId"`
		Name     string    `json:"name"`
		UserID   int64     `json:"userId"`
		Budget   *float64  `json:"budget"`
		PlanDays []wireDay `json:"planDays"`
	} `json:"plan"`
}

type wireDay struct {
	ID        int64 `json:"id"`
	Day       int   `json:"day"`
	Locations []struct {
		LocationID int64 `json:"locationId"`
		Location   struct {
			Name      string  `json:"name"`
			Price     float64 `json:"price"`
			Latitude  string  `json:"latitude"`
			Longitude string  `json:"longitude"`
			Category  string  `json:"category"`
		} `json:"location"`
	} `json:"locations"`
}

// GetPlan fetches a plan and verifies it belongs to userID.
// Returns domain.ErrNotFound for an unknown plan, domain.ErrForbidden when
// the backend rejects the token or the plan belongs to someone else.
func (c *Client) GetPlan(ctx context.Context, token string, userID, planID int64) (domain.Plan, error) {
	url := fmt.Sprintf("%s/plan/%d", c.baseURL, planID)
	resp, err := c.do(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: plan %d: %w", planID, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: %w", domain.ErrForbidden)
	case resp.StatusCode != http.StatusOK:
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: unexpected status %d", resp.StatusCode)
	}

	var env planEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: decode: %w", err)
	}

	plan, err := mapPlan(env)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: %w", err)
	}
	if !plan.OwnedBy(userID) {
		return domain.Plan{}, fmt.Errorf("planapi.Client.GetPlan: plan %d not owned by user %d: %w",
			planID, userID, domain.ErrForbidden)
	}
	return plan, nil
}

// UpdateBudget overwrites the plan's stored budget via PATCH /plan/{id}.
// The write is idempotent on the backend (a plain scalar overwrite).
// Any transport or non-2xx failure is domain.ErrPersistenceFailure.
func (c *Client) UpdateBudget(ctx context.Context, token string, planID int64, amount float64) error {
	payload, err := json.Marshal(map[string]float64{"budget": amount})
	if err != nil {
		return fmt.Errorf("planapi.Client.UpdateBudget: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/plan/%d", c.baseURL, planID)
	resp, err := c.do(ctx, http.MethodPatch, url, token, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("planapi.Client.UpdateBudget: %v: %w", err, domain.ErrPersistenceFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("planapi.Client.UpdateBudget: status %d: %w",
			resp.StatusCode, domain.ErrPersistenceFailure)
	}
	return nil
}

// RemoveDayLocation removes a location from a day's stored selection via
// DELETE /plan/{planId}/planDays/{dayId}/locations/{locationId}.
func (c *Client) RemoveDayLocation(ctx context.Context, token string, planID, dayID, locationID int64) error {
	url := fmt.Sprintf("%s/plan/%d/planDays/%d/locations/%d", c.baseURL, planID, dayID, locationID)
	resp, err := c.do(ctx, http.MethodDelete, url, token, nil)
	if err != nil {
		return fmt.Errorf("planapi.Client.RemoveDayLocation: %v: %w", err, domain.ErrPersistenceFailure)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("planapi.Client.RemoveDayLocation: %w", domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("planapi.Client.RemoveDayLocation: status %d: %w",
			resp.StatusCode, domain.ErrPersistenceFailure)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// mapPlan converts the wire envelope into the domain shape, parsing the
// string-encoded coordinates.
func mapPlan(env planEnvelope) (domain.Plan, error) {
	plan := domain.Plan{
		ID:      env.Plan.PlanID,
		Name:    env.Plan.Name,
		OwnerID: env.Plan.UserID,
		Budget:  env.Plan.Budget,
	}
	for _, d := range env.Plan.PlanDays {
		day := domain.PlanDay{ID: d.ID, Index: d.Day}
		for _, wl := range d.Locations {
			lat, err := strconv.ParseFloat(wl.Location.Latitude, 64)
			if err != nil {
				return domain.Plan{}, fmt.Errorf("location %d: bad latitude %q", wl.LocationID, wl.Location.Latitude)
			}
			lng, err := strconv.ParseFloat(wl.Location.Longitude, 64)
			if err != nil {
				return domain.Plan{}, fmt.Errorf("location %d: bad longitude %q", wl.LocationID, wl.Location.Longitude)
			}
			day.Locations = append(day.Locations, domain.Location{
				ID:       wl.LocationID,
				Name:     wl.Location.Name,
				Price:    wl.Location.Price,
				Lat:      lat,
				Lng:      lng,
				Category: wl.Location.Category,
			})
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}
