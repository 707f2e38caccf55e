package services

import (
	"bus-tracker-service/internal/domain"
	"fmt"
	"math"
	"sync"
	"time"
)

// VehicleSnapshot is a read-only copy of one vehicle's state.
type VehicleSnapshot struct {
	ID         string
	Position   domain.Coordinates
	Dwelling   bool
	SpeedKmh   float64
	RouteIndex int
}

// Status summarizes the primary vehicle for the legacy single-bus view.
type Status struct {
	Position         domain.Coordinates
	Moving           bool
	NearestStop      string
	DistanceToStopKm float64
	SpeedKmh         float64
	CurrentTime      time.Time
}

// Simulator owns the route and the fleet and is the only writer of vehicle state.
//
// A tick or a route replacement holds the write lock for its whole duration, so
// readers observe either the pre-tick or the post-tick fleet, never a partial one.
type Simulator struct {
	mu       sync.RWMutex
	route    domain.Route
	vehicles []domain.Vehicle
	lastTick time.Time
	now      func() time.Time
}

// NewSimulator builds a fleet of vehicleCount buses spaced evenly along route.
// now is the wall clock used for elapsed time and ETA timestamps; nil means time.Now.
func NewSimulator(route domain.Route, vehicleCount int, now func() time.Time) (*Simulator, error) {
	if err := route.Validate(); err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	if vehicleCount < 0 {
		vehicleCount = 0
	}

	route = route.Clone()
	vehicles := make([]domain.Vehicle, 0, vehicleCount)
	for i := 0; i < vehicleCount; i++ {
		idx := i * len(route.Coordinates) / vehicleCount
		// Small per-vehicle speed variation keeps buses from bunching.
		speed := 25 + float64((i*5)%15)
		vehicles = append(vehicles, domain.NewVehicle(fmt.Sprintf("bus-%d", i+1), &route, idx, speed))
	}

	return &Simulator{
		route:    route,
		vehicles: vehicles,
		lastTick: now(),
		now:      now,
	}, nil
}

// Tick advances every vehicle by the wall-clock time elapsed since the previous tick.
// Concurrent calls are serialized; each elapsed interval is counted once.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	elapsed := now.Sub(s.lastTick).Seconds()
	if elapsed < 0 {
		elapsed = 0
	} else {
		s.lastTick = now
	}
	s.advance(elapsed)
}

// AdvanceBy advances every vehicle by an explicit elapsed time without consulting the clock.
func (s *Simulator) AdvanceBy(elapsedSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance(elapsedSeconds)
}

func (s *Simulator) advance(elapsedSeconds float64) {
	for i := range s.vehicles {
		s.vehicles[i].Advance(elapsedSeconds, &s.route)
	}
}

// ReplaceRoute swaps in a new coordinate sequence and re-spaces the fleet along it.
// Stops are kept. An empty sequence is ignored.
func (s *Simulator) ReplaceRoute(coords []domain.Coordinates) {
	if len(coords) == 0 {
		return
	}

	next := make([]domain.Coordinates, len(coords))
	copy(next, coords)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.route.Coordinates = next
	n := len(s.vehicles)
	for i := range s.vehicles {
		s.vehicles[i].Reposition(&s.route, i*len(next)/n)
	}
}

// Status reports the primary vehicle and the stop nearest to it.
func (s *Simulator) Status() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return Status{}, domain.ErrEmptyFleet
	}

	v := s.vehicles[0]
	st := Status{
		Position:    v.Position,
		Moving:      !v.Dwelling,
		CurrentTime: s.now(),
	}
	if !v.Dwelling {
		st.SpeedKmh = v.SpeedKmh
	}
	if stop, d, ok := nearestStop(&s.route, v.Position); ok {
		st.NearestStop = stop.Name
		st.DistanceToStopKm = round(d, 2)
	}

	return st, nil
}

// Vehicles returns a snapshot of every vehicle in fleet order.
func (s *Simulator) Vehicles() []VehicleSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]VehicleSnapshot, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, snapshot(v))
	}
	return out
}

// Route returns a copy of the current route.
func (s *Simulator) Route() domain.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.route.Clone()
}

// LastTick is the wall-clock time of the most recent tick (or construction).
func (s *Simulator) LastTick() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastTick
}

func snapshot(v domain.Vehicle) VehicleSnapshot {
	return VehicleSnapshot{
		ID:         v.ID,
		Position:   v.Position,
		Dwelling:   v.Dwelling,
		SpeedKmh:   v.SpeedKmh,
		RouteIndex: v.RouteIndex,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
