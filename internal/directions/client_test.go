package directions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanchai/trip-budget/internal/directions"
	"github.com/kanchai/trip-budget/internal/domain"
)

var (
	origin = domain.Coordinate{Lat: 16.4321, Lng: 102.8236}
	stopA  = domain.Coordinate{Lat: 16.4048, Lng: 102.835}
	stopB  = domain.Coordinate{Lat: 16.55, Lng: 102.6}
)

// okResponse is a minimal provider payload: one route with two legs.
const okResponse = `{
  "status": "OK",
  "routes": [
    {
      "legs": [
        {"distance": {"value": 4200}, "duration": {"value": 540},
         "start_location": {"lat": 16.4321, "lng": 102.8236},
         "end_location": {"lat": 16.4048, "lng": 102.835}},
        {"distance": {"value": 28800}, "duration": {"value": 1860},
         "start_location": {"lat": 16.4048, "lng": 102.835},
         "end_location": {"lat": 16.55, "lng": 102.6}}
      ]
    },
    {"legs": [{"distance": {"value": 99999}, "duration": {"value": 9999},
               "start_location": {"lat": 0, "lng": 0}, "end_location": {"lat": 0, "lng": 0}}]}
  ]
}`

// memoryCache is a map-backed RouteCache for tests.
type memoryCache struct {
	entries map[string][]domain.RouteLeg
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]domain.RouteLeg)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]domain.RouteLeg, bool, error) {
	legs, ok := m.entries[key]
	return legs, ok, nil
}

func (m *memoryCache) Put(_ context.Context, key string, legs []domain.RouteLeg) error {
	m.puts++
	m.entries[key] = legs
	return nil
}

var _ directions.RouteCache = (*memoryCache)(nil)

func newClient(t *testing.T, baseURL string, cache directions.RouteCache) *directions.Client {
	t.Helper()
	c, err := directions.NewClient(baseURL, "test-key", cache)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := directions.NewClient("http://example.com", "", nil)

	require.Error(t, err)
}

func TestRoute_ParsesFirstRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	legs, err := newClient(t, srv.URL, nil).Route(context.Background(), origin, []domain.Coordinate{stopA, stopB})

	require.NoError(t, err)
	// Alternatives are allowed in the request but only the first route is used.
	require.Len(t, legs, 2)
	assert.Equal(t, 4200, legs[0].DistanceMeters)
	assert.Equal(t, 540, legs[0].DurationSeconds)
	assert.Equal(t, 16.4048, legs[0].End.Lat)
	assert.Equal(t, 28800, legs[1].DistanceMeters)
}

func TestRoute_QueryShape(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"path":         r.URL.Path,
			"origin":       r.URL.Query().Get("origin"),
			"destination":  r.URL.Query().Get("destination"),
			"waypoints":    r.URL.Query().Get("waypoints"),
			"mode":         r.URL.Query().Get("mode"),
			"alternatives": r.URL.Query().Get("alternatives"),
			"key":          r.URL.Query().Get("key"),
		}
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).Route(context.Background(), origin, []domain.Coordinate{stopA, stopB})

	require.NoError(t, err)
	assert.Equal(t, "/maps/api/directions/json", got["path"])
	assert.Equal(t, "16.432100,102.823600", got["origin"])
	// The last stop is the destination; earlier stops become waypoints.
	assert.Equal(t, "16.550000,102.600000", got["destination"])
	assert.Equal(t, "16.404800,102.835000", got["waypoints"])
	assert.Equal(t, "driving", got["mode"])
	assert.Equal(t, "true", got["alternatives"])
	assert.Equal(t, "test-key", got["key"])
}

func TestRoute_SingleStopHasNoWaypoints(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).Route(context.Background(), origin, []domain.Coordinate{stopA})

	require.NoError(t, err)
	assert.NotContains(t, rawQuery, "waypoints")
}

func TestRoute_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).Route(context.Background(), origin, []domain.Coordinate{stopA})

	require.ErrorIs(t, err, domain.ErrRouteUnavailable)
}

func TestRoute_NoStops(t *testing.T) {
	_, err := newClient(t, "http://example.invalid", nil).Route(context.Background(), origin, nil)

	require.ErrorIs(t, err, domain.ErrInvalidRouteInput)
}

func TestRoute_RetriesTransientServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	legs, err := newClient(t, srv.URL, nil).Route(context.Background(), origin, []domain.Coordinate{stopA})

	require.NoError(t, err)
	assert.Len(t, legs, 2)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRoute_CacheHitSkipsProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	client := newClient(t, srv.URL, cache)
	ctx := context.Background()
	stops := []domain.Coordinate{stopA, stopB}

	first, err := client.Route(ctx, origin, stops)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, cache.puts)

	second, err := client.Route(ctx, origin, stops)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Second lookup came from the cache.
	assert.EqualValues(t, 1, calls.Load())
}

func TestRoute_DifferentStopOrderMissesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	client := newClient(t, srv.URL, cache)
	ctx := context.Background()

	_, err := client.Route(ctx, origin, []domain.Coordinate{stopA, stopB})
	require.NoError(t, err)
	_, err = client.Route(ctx, origin, []domain.Coordinate{stopB, stopA})
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls.Load())
}
