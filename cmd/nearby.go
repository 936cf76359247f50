package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carenav/directory-cli/internal/cache"
	"github.com/carenav/directory-cli/pkg/places"
)

var (
	nearbyLat      float64
	nearbyLng      float64
	nearbyRadius   int
	nearbyCategory string
	nearbyOpenNow  bool
)

// nearbyCache survives across invocations within one process; handy when the
// command runs under a watch loop or is driven programmatically.
var nearbyCache *cache.TTL[*places.NearbyResponse]

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Search for providers near a coordinate",
	Long: `Nearby queries the places API for providers of the given category around
a coordinate and prints them as JSON, closest first, each annotated with its
distance in miles from the search center.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Places.Key == "" {
			return eris.New("nearby: places API key not configured (set CARENAV_PLACES_KEY)")
		}

		radius := nearbyRadius
		if radius <= 0 {
			radius = cfg.Places.DefaultRadiusMeters
		}
		req := places.NearbyRequest{
			Lat:          nearbyLat,
			Lng:          nearbyLng,
			RadiusMeters: radius,
			Category:     nearbyCategory,
			OpenNow:      nearbyOpenNow,
		}

		if nearbyCache == nil {
			nearbyCache = cache.New[*places.NearbyResponse](
				time.Duration(cfg.Cache.TTLSeconds) * time.Second,
			)
		}
		key := fmt.Sprintf("%.6f|%.6f|%d|%s|%t",
			req.Lat, req.Lng, req.RadiusMeters, req.Category, req.OpenNow)

		resp, ok := nearbyCache.Get(key)
		if !ok {
			client := places.NewClient(cfg.Places.Key,
				places.WithBaseURL(cfg.Places.BaseURL),
				places.WithRateLimit(cfg.Places.RateLimitPerSec, 1),
			)
			var err error
			resp, err = client.Nearby(cmd.Context(), req)
			if err != nil {
				return err
			}
			nearbyCache.Set(key, resp)
		}

		zap.L().Info("nearby search",
			zap.String("category", req.Category),
			zap.Int("radius_meters", req.RadiusMeters),
			zap.Int("results", len(resp.Places)),
			zap.Bool("cached", ok),
		)

		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return eris.Wrap(err, "nearby: marshal response")
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", 0, "latitude of the search center")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 0, "longitude of the search center")
	nearbyCmd.Flags().IntVar(&nearbyRadius, "radius", 0, "search radius in meters (default from config)")
	nearbyCmd.Flags().StringVar(&nearbyCategory, "category", "primary_care", "provider category to search for")
	nearbyCmd.Flags().BoolVar(&nearbyOpenNow, "open-now", false, "only return places open right now")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(nearbyCmd)
}
