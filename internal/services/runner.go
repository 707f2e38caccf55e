package services

import (
	"context"
	"log"
	"time"
)

// Run ticks sim every interval until ctx is cancelled.
// After each tick, onTick (if non-nil) receives the post-tick fleet.
// Run is the only scheduler of ticks, so ticks never overlap.
func Run(ctx context.Context, sim *Simulator, interval time.Duration, onTick func([]VehicleSnapshot)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("simulation loop started interval=%s", interval)
	for {
		select {
		case <-ticker.C:
			sim.Tick()
			if onTick != nil {
				onTick(sim.Vehicles())
			}
		case <-ctx.Done():
			log.Println("simulation loop stopped")
			return ctx.Err()
		}
	}
}
