// Package places is the client for the nearby-search provider the directory
// UI consumes. The grouping engine never depends on it.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client performs nearby-search operations.
type Client interface {
	Nearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error)
}

// NearbyRequest describes a nearby search: a coordinate, radius, directory
// category, and optional open-now filter.
type NearbyRequest struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Category     string
	OpenNow      bool
}

// Place is one candidate returned by the provider.
type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Vicinity         string  `json:"vicinity"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Rating           float64 `json:"rating,omitempty"`
	UserRatingsTotal int     `json:"user_ratings_total,omitempty"`
	OpenNow          *bool   `json:"open_now,omitempty"`
	DistanceMiles    float64 `json:"distance_miles"`
}

// NearbyResponse holds the candidates for one search, ordered as the
// provider returned them.
type NearbyResponse struct {
	Places []Place `json:"places"`
}

// categorySearch maps directory categories to the provider's place type plus
// a refining keyword (the provider's type list is coarse).
var categorySearch = map[string]struct{ placeType, keyword string }{
	"dental":        {"dentist", "dental clinic"},
	"primary_care":  {"doctor", "primary care physician"},
	"urgent_care":   {"hospital", "urgent care"},
	"optometrist":   {"optometrist", "optometrist"},
	"mental_health": {"doctor", "therapy psychologist counseling mental health"},
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a nearby-search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// nearbyRaw mirrors the provider's wire format.
type nearbyRaw struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		OpeningHours     *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

func (c *httpClient) Nearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "places: rate limit wait")
		}
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
	q.Set("radius", fmt.Sprintf("%d", req.RadiusMeters))
	if search, ok := categorySearch[req.Category]; ok {
		q.Set("type", search.placeType)
		q.Set("keyword", search.keyword)
	} else if req.Category != "" {
		q.Set("keyword", req.Category)
	}
	if req.OpenNow {
		q.Set("opennow", "true")
	}

	endpoint := c.baseURL + "/place/nearbysearch/json?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw nearbyRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}
	if raw.Status != "OK" && raw.Status != "ZERO_RESULTS" {
		return nil, eris.Errorf("places: provider status %s", raw.Status)
	}

	out := &NearbyResponse{Places: make([]Place, 0, len(raw.Results))}
	for _, r := range raw.Results {
		place := Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Vicinity:         r.Vicinity,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			DistanceMiles:    HaversineMiles(req.Lat, req.Lng, r.Geometry.Location.Lat, r.Geometry.Location.Lng),
		}
		if r.OpeningHours != nil {
			place.OpenNow = r.OpeningHours.OpenNow
		}
		out.Places = append(out.Places, place)
	}
	sort.SliceStable(out.Places, func(i, j int) bool {
		return out.Places[i].DistanceMiles < out.Places[j].DistanceMiles
	})
	return out, nil
}
