package ports

import (
	"bus-tracker-service/internal/domain"
	"context"
)

// Port: persistent storage for previously fetched route geometry.
type RouteCache interface {
	// Return the cached geometry for key; ok is false on a miss.
	Get(ctx context.Context, key string) (coords []domain.Coordinates, ok bool, err error)
	// Store geometry for key, recording which provider produced it.
	Put(ctx context.Context, key string, source string, coords []domain.Coordinates) error
}
