package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/obs"
	"bus-tracker-service/internal/platform/polyline"
	"bus-tracker-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const googleBaseURL = "https://maps.googleapis.com"

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// GoogleDirectionsProvider implements DirectionsProvider using the Google Directions API.
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	client  *httpClient
	apiKey  string
	baseURL string
}

// NewGoogleDirectionsProvider returns a provider for apiKey. An empty baseURL selects
// the public Google endpoint.
func NewGoogleDirectionsProvider(apiKey, baseURL string) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	if baseURL == "" {
		baseURL = googleBaseURL
	}

	return &GoogleDirectionsProvider{
		client:  newHTTPClient(),
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (g *GoogleDirectionsProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "google.GetDirections")(&err)

	if len(waypoints) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: need at least 2 waypoints, got %d", len(waypoints))
	}

	q := url.Values{}
	q.Set("origin", waypoints[0].String())
	q.Set("destination", waypoints[len(waypoints)-1].String())
	q.Set("mode", "driving")
	q.Set("key", g.apiKey)
	if mid := waypoints[1 : len(waypoints)-1]; len(mid) > 0 {
		parts := make([]string, 0, len(mid))
		for _, w := range mid {
			parts = append(parts, w.String())
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	var decoded googleResponse
	if err := g.client.getJSON(ctx, g.baseURL+"/maps/api/directions/json", q, &decoded); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", err)
	}

	if decoded.Status != "OK" {
		if decoded.ErrorMessage != "" {
			return ports.DirectionsResult{}, fmt.Errorf("google directions: status %s: %s", decoded.Status, decoded.ErrorMessage)
		}
		return ports.DirectionsResult{}, fmt.Errorf("google directions: status %s", decoded.Status)
	}
	if len(decoded.Routes) == 0 || decoded.Routes[0].OverviewPolyline.Points == "" {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", domain.ErrNoRoute)
	}

	coords, err := polyline.Decode(decoded.Routes[0].OverviewPolyline.Points)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", err)
	}
	if len(coords) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("google directions: %w", domain.ErrNoRoute)
	}

	return ports.DirectionsResult{Coordinates: coords, Source: "google"}, nil
}
