package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"taxifare/internal/types"
)

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key. Extra
// options (base URL, HTTP client) are passed through to the maps client.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := newClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &RouteService{client: client}, nil
}

// GetTravelEstimate returns the driving duration and the human readable
// distance between the two points.
func (s *RouteService) GetTravelEstimate(ctx context.Context, pickup, dropoff types.Point) (time.Duration, string, error) {
	r := &maps.DirectionsRequest{
		Origin:      pickup.String(),
		Destination: dropoff.String(),
		Mode:        maps.TravelModeDriving,
		Language:    "en",
		Region:      "us",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, "", fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, "", fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return leg.Duration, leg.Distance.HumanReadable, nil
}

func newClient(apiKey string, opts ...maps.ClientOption) (*maps.Client, error) {
	all := append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}
