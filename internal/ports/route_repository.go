package ports

import (
	"bus-tracker-service/internal/domain"
	"context"
)

// Port: a boundary for loading the route the fleet runs on.
type RouteRepository interface {
	// Retrieve the configured route and its stops.
	LoadRoute(ctx context.Context) (domain.Route, error)
}
