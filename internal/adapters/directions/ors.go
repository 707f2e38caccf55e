package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/obs"
	"bus-tracker-service/internal/platform/polyline"
	"bus-tracker-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
)

const orsBaseURL = "https://api.openrouteservice.org"

type orsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
		Summary  struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// ORSDirectionsProvider implements DirectionsProvider using OpenRouteService.
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	client  *httpClient
	baseURL string
	profile string
}

// NewORSDirectionsProvider returns a driving-car provider for apiKey. An empty baseURL
// selects the public OpenRouteService endpoint.
func NewORSDirectionsProvider(apiKey, baseURL string) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = orsBaseURL
	}

	client := newHTTPClient()
	client.header.Set("Authorization", apiKey)

	return &ORSDirectionsProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving-car",
	}, nil
}

func (o *ORSDirectionsProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.GetDirections")(&err)

	if len(waypoints) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("ors directions: need at least 2 waypoints, got %d", len(waypoints))
	}

	body := orsRequest{Coordinates: make([][]float64, 0, len(waypoints))}
	for _, w := range waypoints {
		body.Coordinates = append(body.Coordinates, w.CoordsToList())
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	var decoded orsResponse
	if err := o.client.postJSON(ctx, endpoint, body, &decoded); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("ors directions: %w", err)
	}

	if len(decoded.Routes) == 0 || decoded.Routes[0].Geometry == "" {
		return ports.DirectionsResult{}, fmt.Errorf("ors directions: %w", domain.ErrNoRoute)
	}

	coords, err := polyline.Decode(decoded.Routes[0].Geometry)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("ors directions: %w", err)
	}
	if len(coords) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("ors directions: %w", domain.ErrNoRoute)
	}

	return ports.DirectionsResult{Coordinates: coords, Source: "ors"}, nil
}
