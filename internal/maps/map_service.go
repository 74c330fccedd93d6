package maps

import (
	"context"
	"fmt"
	"image"

	"googlemaps.github.io/maps"

	"taxifare/internal/modules/ride"
	"taxifare/internal/types"
)

const defaultMapSize = "640x400"

// MapService renders the pickup/dropoff pair as a Google Static Maps image.
type MapService struct {
	client *maps.Client
	zoom   int
}

// NewMapService creates a MapService. zoom <= 0 lets the API fit both markers.
func NewMapService(apiKey string, zoom int, opts ...maps.ClientOption) (*MapService, error) {
	client, err := newClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &MapService{client: client, zoom: zoom}, nil
}

// TripRequest builds the static map request: green P at pickup, red D at
// dropoff, a straight path between them.
func (s *MapService) TripRequest(pickup, dropoff types.Point) *maps.StaticMapRequest {
	p := maps.LatLng{Lat: pickup.Lat, Lng: pickup.Lng}
	d := maps.LatLng{Lat: dropoff.Lat, Lng: dropoff.Lng}
	r := &maps.StaticMapRequest{
		Size:   defaultMapSize,
		Format: maps.PNG8,
		Markers: []maps.Marker{
			{Color: "green", Label: "P", Location: []maps.LatLng{p}},
			{Color: "red", Label: "D", Location: []maps.LatLng{d}},
		},
		Paths: []maps.Path{
			{Weight: 4, Color: "0x1e90ffcc", Location: []maps.LatLng{p, d}},
		},
	}
	if s.zoom > 0 {
		r.Zoom = s.zoom
		r.Center = ride.Midpoint(pickup, dropoff).String()
	}
	return r
}

// RenderTrip fetches the map image for the two points.
func (s *MapService) RenderTrip(ctx context.Context, pickup, dropoff types.Point) (image.Image, error) {
	img, err := s.client.StaticMap(ctx, s.TripRequest(pickup, dropoff))
	if err != nil {
		return nil, fmt.Errorf("static map: %w", err)
	}
	return img, nil
}
