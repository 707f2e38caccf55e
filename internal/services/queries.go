package services

import (
	"bus-tracker-service/internal/domain"
	"fmt"
	"math"
)

// NearestStop returns the stop closest to p and its distance in km.
// Ties go to the stop defined first.
func (s *Simulator) NearestStop(p domain.Coordinates) (domain.Stop, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stop, d, ok := nearestStop(&s.route, p)
	if !ok {
		return domain.Stop{}, 0, fmt.Errorf("route %q has no stops: %w", s.route.Name, domain.ErrNotFound)
	}
	return stop, d, nil
}

// NearestVehicle returns the vehicle closest to p and its distance in km.
func (s *Simulator) NearestVehicle(p domain.Coordinates) (VehicleSnapshot, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return VehicleSnapshot{}, 0, domain.ErrEmptyFleet
	}

	best := 0
	bestKm := math.Inf(1)
	for i, v := range s.vehicles {
		if d := domain.DistanceKm(p, v.Position); d < bestKm {
			best = i
			bestKm = d
		}
	}
	return snapshot(s.vehicles[best]), bestKm, nil
}

// VehiclesBetween lists vehicles that have not yet passed the "to" stop.
//
// Stops are compared by definition order and that ordinal is compared directly with
// each vehicle's route index. This is a coarse filter, not a trajectory check. An unknown
// stop name or a "from" stop that does not come before "to" yields an empty list.
func (s *Simulator) VehiclesBetween(fromStop, toStop string) []VehicleSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, fromIdx, err := s.route.StopByName(fromStop)
	if err != nil {
		return []VehicleSnapshot{}
	}
	_, toIdx, err := s.route.StopByName(toStop)
	if err != nil {
		return []VehicleSnapshot{}
	}
	if fromIdx >= toIdx {
		return []VehicleSnapshot{}
	}

	out := []VehicleSnapshot{}
	for _, v := range s.vehicles {
		if v.RouteIndex <= toIdx {
			out = append(out, snapshot(v))
		}
	}
	return out
}

func nearestStop(route *domain.Route, p domain.Coordinates) (domain.Stop, float64, bool) {
	if len(route.Stops) == 0 {
		return domain.Stop{}, 0, false
	}

	best := 0
	bestKm := math.Inf(1)
	for i, stop := range route.Stops {
		if d := domain.DistanceKm(p, stop.Location); d < bestKm {
			best = i
			bestKm = d
		}
	}
	return route.Stops[best], bestKm, true
}
