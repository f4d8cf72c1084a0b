// Package directions implements the external directions capability: a client
// for a Google-Directions-style JSON API, fronted by an optional persistent
// route cache so re-estimating an unchanged selection does not re-bill the
// provider.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/metrics"
)

// DefaultBaseURL is the production directions endpoint host.
const DefaultBaseURL = "https://maps.googleapis.com"

// RouteCache is the persistence contract for memoized routes, keyed by the
// stop sequence. The Postgres implementation lives in internal/repo.
type RouteCache interface {
	// Get returns the cached legs for a key; ok is false on a miss.
	Get(ctx context.Context, key string) (legs []domain.RouteLeg, ok bool, err error)

	// Put stores the legs for a key, overwriting any previous entry.
	Put(ctx context.Context, key string, legs []domain.RouteLeg) error
}

// Client fetches driving routes from the directions provider.
// Transient transport failures (429, 5xx, network errors) are retried with
// exponential backoff; a provider status other than "OK" is not retried —
// that is the user's signal to change the stops and try again.
type Client struct {
	baseURL string
	apiKey  string
	session *http.Client
	cache   RouteCache // nil disables caching
}

// NewClient constructs a Client. cache may be nil to disable route caching.
func NewClient(baseURL, apiKey string, cache RouteCache) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("directions api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}, nil
}

// --- wire types -------------------------------------------------------------

type wireCoord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			StartLocation wireCoord `json:"start_location"`
			EndLocation   wireCoord `json:"end_location"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route returns the legs of the first route the provider offers for
// origin → stops. The last stop is the destination; any earlier stops are
// waypoints. Satisfies routecost.Directions.
func (c *Client) Route(ctx context.Context, origin domain.Coordinate, stops []domain.Coordinate) ([]domain.RouteLeg, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("directions.Client.Route: no stops: %w", domain.ErrInvalidRouteInput)
	}

	key := cacheKey(origin, stops)
	if c.cache != nil {
		legs, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			// A broken cache must not block routing.
			slog.WarnContext(ctx, "route cache read failed", "error", err)
		} else if ok {
			metrics.RouteCacheHits.Inc()
			return legs, nil
		}
		metrics.RouteCacheMisses.Inc()
	}

	legs, err := c.fetch(ctx, origin, stops)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, legs); err != nil {
			slog.WarnContext(ctx, "route cache write failed", "error", err)
		}
	}
	return legs, nil
}

// fetch performs the provider call with retry on transient failures.
func (c *Client) fetch(ctx context.Context, origin domain.Coordinate, stops []domain.Coordinate) ([]domain.RouteLeg, error) {
	endpoint := c.requestURL(origin, stops)

	var dr directionsResponse
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.session.Do(req)
		if err != nil {
			// Network-level failures (dial, reset, timeout) are transient.
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("provider status %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("provider status %d", resp.StatusCode)
		}

		dr = directionsResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues("TRANSPORT_ERROR").Inc()
		return nil, fmt.Errorf("directions.Client.Route: %w", err)
	}

	metrics.DirectionsRequests.WithLabelValues(dr.Status).Inc()

	if dr.Status != "OK" {
		return nil, fmt.Errorf("directions.Client.Route: provider status %q: %w",
			dr.Status, domain.ErrRouteUnavailable)
	}
	if len(dr.Routes) == 0 || len(dr.Routes[0].Legs) == 0 {
		return nil, fmt.Errorf("directions.Client.Route: empty route: %w", domain.ErrRouteUnavailable)
	}

	// The provider may return alternatives; the first route is used.
	route := dr.Routes[0]
	legs := make([]domain.RouteLeg, 0, len(route.Legs))
	for _, l := range route.Legs {
		legs = append(legs, domain.RouteLeg{
			Start:           domain.Coordinate{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			End:             domain.Coordinate{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
		})
	}
	return legs, nil
}

// requestURL builds the directions query: the last stop becomes the
// destination, earlier stops become waypoints, driving mode, alternatives on.
func (c *Client) requestURL(origin domain.Coordinate, stops []domain.Coordinate) string {
	q := url.Values{}
	q.Set("origin", coordParam(origin))
	q.Set("destination", coordParam(stops[len(stops)-1]))
	if len(stops) > 1 {
		parts := make([]string, 0, len(stops)-1)
		for _, s := range stops[:len(stops)-1] {
			parts = append(parts, coordParam(s))
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}
	q.Set("mode", "driving")
	q.Set("alternatives", "true")
	q.Set("key", c.apiKey)
	return c.baseURL + "/maps/api/directions/json?" + q.Encode()
}

func coordParam(c domain.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// cacheKey identifies a route by its exact stop sequence. Coordinates are
// truncated to 6 decimals (~0.1 m), same precision as the request itself.
func cacheKey(origin domain.Coordinate, stops []domain.Coordinate) string {
	var b strings.Builder
	b.WriteString(coordParam(origin))
	for _, s := range stops {
		b.WriteByte('|')
		b.WriteString(coordParam(s))
	}
	return b.String()
}
