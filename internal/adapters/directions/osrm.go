package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/obs"
	"bus-tracker-service/internal/platform/polyline"
	"bus-tracker-service/internal/ports"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Public OSRM demo server; fine for prototyping, not for production traffic.
const osrmBaseURL = "https://router.project-osrm.org"

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// OSRMDirectionsProvider implements DirectionsProvider against an OSRM routing server.
type OSRMDirectionsProvider struct {
	client  *httpClient
	baseURL string
}

// NewOSRMDirectionsProvider returns a provider for baseURL; empty selects the public demo server.
func NewOSRMDirectionsProvider(baseURL string) *OSRMDirectionsProvider {
	if baseURL == "" {
		baseURL = osrmBaseURL
	}
	return &OSRMDirectionsProvider{
		client:  newHTTPClient(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (o *OSRMDirectionsProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "osrm.GetDirections")(&err)

	if len(waypoints) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: need at least 2 waypoints, got %d", len(waypoints))
	}

	// OSRM takes lon,lat pairs separated by semicolons in the path.
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lon, 'f', -1, 64)+","+strconv.FormatFloat(w.Lat, 'f', -1, 64))
	}
	endpoint := o.baseURL + "/route/v1/driving/" + strings.Join(parts, ";")

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline")

	var decoded osrmResponse
	if err := o.client.getJSON(ctx, endpoint, q, &decoded); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: %w", err)
	}

	if decoded.Code != "Ok" {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: code %s: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 || decoded.Routes[0].Geometry == "" {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: %w", domain.ErrNoRoute)
	}

	coords, err := polyline.Decode(decoded.Routes[0].Geometry)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: %w", err)
	}
	if len(coords) == 0 {
		return ports.DirectionsResult{}, fmt.Errorf("osrm directions: %w", domain.ErrNoRoute)
	}

	return ports.DirectionsResult{Coordinates: coords, Source: "osrm"}, nil
}
