package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearby_RequestAndResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "5000", q.Get("radius"))
		assert.Equal(t, "dentist", q.Get("type"))
		assert.Equal(t, "dental clinic", q.Get("keyword"))
		assert.Equal(t, "true", q.Get("opennow"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"status": "OK",
			"results": []map[string]any{
				{
					"place_id": "pl_1",
					"name":     "Goleta Dental Group",
					"vicinity": "123 Main St, Goleta",
					"geometry": map[string]any{
						"location": map[string]any{"lat": 34.44, "lng": -119.83},
					},
					"rating":             4.5,
					"user_ratings_total": 120,
					"opening_hours":      map[string]any{"open_now": true},
				},
				{
					"place_id": "pl_2",
					"name":     "IV Dental",
					"vicinity": "45 Oak Ave, Goleta",
					"geometry": map[string]any{
						"location": map[string]any{"lat": 34.41, "lng": -119.86},
					},
				},
			},
		})
	}))
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL))
	resp, err := client.Nearby(context.Background(), NearbyRequest{
		Lat:          34.44,
		Lng:          -119.83,
		RadiusMeters: 5000,
		Category:     "dental",
		OpenNow:      true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Places, 2)

	first := resp.Places[0]
	assert.Equal(t, "pl_1", first.PlaceID)
	assert.InDelta(t, 4.5, first.Rating, 0.001)
	assert.Equal(t, 120, first.UserRatingsTotal)
	require.NotNil(t, first.OpenNow)
	assert.True(t, *first.OpenNow)
	assert.InDelta(t, 0.0, first.DistanceMiles, 0.001) // same point as the search center

	second := resp.Places[1]
	assert.Nil(t, second.OpenNow) // no opening-hours metadata
	assert.Greater(t, second.DistanceMiles, 0.5)
}

func TestNearby_ZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}}) //nolint:errcheck
	}))
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL))
	resp, err := client.Nearby(context.Background(), NearbyRequest{Lat: 0, Lng: 0, RadiusMeters: 100})
	require.NoError(t, err)
	assert.Empty(t, resp.Places)
}

func TestNearby_ProviderErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_DENIED"}) //nolint:errcheck
	}))
	defer ts.Close()

	client := NewClient("bad-key", WithBaseURL(ts.URL))
	_, err := client.Nearby(context.Background(), NearbyRequest{Lat: 0, Lng: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestNearby_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL))
	_, err := client.Nearby(context.Background(), NearbyRequest{Lat: 0, Lng: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestNearby_UnknownCategoryFallsBackToKeyword(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Empty(t, q.Get("type"))
		assert.Equal(t, "acupuncture", q.Get("keyword"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "OK", "results": []any{}}) //nolint:errcheck
	}))
	defer ts.Close()

	client := NewClient("test-key", WithBaseURL(ts.URL))
	_, err := client.Nearby(context.Background(), NearbyRequest{Category: "acupuncture"})
	require.NoError(t, err)
}

func TestHaversineMiles_KnownDistance(t *testing.T) {
	// Goleta to downtown Santa Barbara is roughly 8 miles.
	d := HaversineMiles(34.4358, -119.8276, 34.4208, -119.6982)
	assert.InDelta(t, 7.5, d, 1.0)

	assert.InDelta(t, 0.0, HaversineMiles(34.44, -119.83, 34.44, -119.83), 1e-9)
}
