package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
)

// FallbackProvider asks each provider in order and returns the first success.
type FallbackProvider struct {
	providers []ports.DirectionsProvider
}

// NewFallbackProvider skips nil providers so callers can pass optional ones directly.
func NewFallbackProvider(providers ...ports.DirectionsProvider) *FallbackProvider {
	kept := make([]ports.DirectionsProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &FallbackProvider{providers: kept}
}

func (f *FallbackProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (ports.DirectionsResult, error) {
	if len(f.providers) == 0 {
		return ports.DirectionsResult{}, errors.New("no directions provider configured")
	}

	var errs []error
	for i, p := range f.providers {
		res, err := p.GetDirections(ctx, waypoints)
		if err == nil {
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ports.DirectionsResult{}, ctxErr
		}

		log.Printf("directions provider failed idx=%d err=%v", i, err)
		errs = append(errs, err)
	}

	return ports.DirectionsResult{}, fmt.Errorf("all directions providers failed: %w", errors.Join(errs...))
}
