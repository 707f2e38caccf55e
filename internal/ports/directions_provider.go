package ports

import (
	"bus-tracker-service/internal/domain"
	"context"
)

// Road-following geometry returned by a directions service.
type DirectionsResult struct {
	Coordinates []domain.Coordinates
	// Source names the provider that produced the geometry ("google", "ors", "osrm", "cache").
	Source string
}

// Contract for fetching a driving path through an ordered list of waypoints.
type DirectionsProvider interface {
	// Return the path from the first waypoint to the last, visiting the rest in order.
	// An empty geometry is reported as an error, never as an empty result.
	GetDirections(ctx context.Context, waypoints []domain.Coordinates) (DirectionsResult, error)
}
