package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/ports"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachingProvider serves directions from a RouteCache and fills it on a miss.
// Concurrent requests for the same waypoints share one upstream fetch.
type CachingProvider struct {
	next  ports.DirectionsProvider
	cache ports.RouteCache
	group singleflight.Group

	// FetchTimeout bounds one shared upstream fetch. Zero means defaultFetchTimeout.
	FetchTimeout time.Duration
}

const defaultFetchTimeout = 30 * time.Second

func NewCachingProvider(next ports.DirectionsProvider, cache ports.RouteCache) *CachingProvider {
	return &CachingProvider{next: next, cache: cache}
}

// CacheKey identifies a waypoint list. Coordinates are rounded to the polyline
// precision so equivalent requests share an entry.
func CacheKey(waypoints []domain.Coordinates) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts, fmt.Sprintf("%.5f,%.5f", w.Lat, w.Lon))
	}
	return strings.Join(parts, ";")
}

func (c *CachingProvider) fetchTimeout() time.Duration {
	if c.FetchTimeout > 0 {
		return c.FetchTimeout
	}
	return defaultFetchTimeout
}

func (c *CachingProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (ports.DirectionsResult, error) {
	key := CacheKey(waypoints)

	if c.cache != nil {
		coords, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("route cache read failed key=%q err=%v", key, err)
		} else if ok && len(coords) > 0 {
			return ports.DirectionsResult{Coordinates: coords, Source: "cache"}, nil
		}
	}

	// The shared fetch outlives any single caller; each caller stops waiting on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()

		res, err := c.next.GetDirections(fetchCtx, waypoints)
		if err != nil {
			return ports.DirectionsResult{}, err
		}

		if c.cache != nil {
			if err := c.cache.Put(fetchCtx, key, res.Source, res.Coordinates); err != nil {
				log.Printf("route cache write failed key=%q err=%v", key, err)
			}
		}
		return res, nil
	})

	var r singleflight.Result
	select {
	case r = <-ch:
	case <-ctx.Done():
		return ports.DirectionsResult{}, ctx.Err()
	}
	if r.Err != nil {
		return ports.DirectionsResult{}, r.Err
	}

	res := r.Val.(ports.DirectionsResult)
	if r.Shared {
		// Callers may modify the slice; do not hand out the same backing array twice.
		res.Coordinates = append([]domain.Coordinates(nil), res.Coordinates...)
	}
	return res, nil
}
