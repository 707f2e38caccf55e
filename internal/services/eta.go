package services

import (
	"bus-tracker-service/internal/domain"
	"fmt"
	"time"
)

// ETA is the estimated arrival of one vehicle at one stop.
type ETA struct {
	VehicleID  string
	StopName   string
	Minutes    float64 // rounded to one decimal
	ArriveAt   time.Time
	DistanceKm float64 // rounded to three decimals
}

// StopETA pairs a stop with either its ETA or the reason none could be computed.
type StopETA struct {
	StopName string
	ETA      ETA
	Err      error
}

// ETA estimates when vehicleID reaches stopName.
//
// The estimate walks the route forward from the vehicle's target coordinate until a
// coordinate lies within ArrivalRadiusKm of the stop, converts that distance to time
// at the vehicle's speed, then adds the dwell of every other stop that is closer to
// the vehicle than the target is. That closeness test is a straight-line proxy for
// "between here and there" and can misfire on routes that double back on themselves.
func (s *Simulator) ETA(vehicleID, stopName string) (ETA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return ETA{}, domain.ErrEmptyFleet
	}

	v, ok := s.vehicleByID(vehicleID)
	if !ok {
		return ETA{}, fmt.Errorf("vehicle %q: %w", vehicleID, domain.ErrNotFound)
	}

	return s.estimate(v, stopName)
}

// PrimaryETA estimates arrival at stopName for the primary (first) vehicle.
func (s *Simulator) PrimaryETA(stopName string) (ETA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return ETA{}, domain.ErrEmptyFleet
	}
	return s.estimate(s.vehicles[0], stopName)
}

// AllETAs estimates the primary vehicle's arrival at every stop, in stop definition order.
func (s *Simulator) AllETAs() ([]StopETA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return nil, domain.ErrEmptyFleet
	}

	out := make([]StopETA, 0, len(s.route.Stops))
	for _, stop := range s.route.Stops {
		eta, err := s.estimate(s.vehicles[0], stop.Name)
		out = append(out, StopETA{StopName: stop.Name, ETA: eta, Err: err})
	}
	return out, nil
}

// NearestVehicleToStop returns the vehicle expected soonest at stopName with its ETA.
// Both come from the same fleet state. Ties go to the vehicle listed first.
func (s *Simulator) NearestVehicleToStop(stopName string) (VehicleSnapshot, ETA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vehicles) == 0 {
		return VehicleSnapshot{}, ETA{}, domain.ErrEmptyFleet
	}
	if _, _, err := s.route.StopByName(stopName); err != nil {
		return VehicleSnapshot{}, ETA{}, err
	}

	var (
		best    ETA
		vehicle domain.Vehicle
		found   bool
	)
	for _, v := range s.vehicles {
		eta, err := s.estimate(v, stopName)
		if err != nil {
			continue
		}
		if !found || eta.Minutes < best.Minutes {
			best = eta
			vehicle = v
			found = true
		}
	}
	if !found {
		return VehicleSnapshot{}, ETA{}, fmt.Errorf("no vehicle with an ETA to %q: %w", stopName, domain.ErrUnreachable)
	}

	return snapshot(vehicle), best, nil
}

// ShouldNotify reports whether the primary vehicle will reach stopName within
// minutesBefore minutes but has not arrived yet.
func (s *Simulator) ShouldNotify(stopName string, minutesBefore float64) (bool, ETA, error) {
	eta, err := s.PrimaryETA(stopName)
	if err != nil {
		return false, ETA{}, err
	}
	return eta.Minutes > 0 && eta.Minutes <= minutesBefore, eta, nil
}

func (s *Simulator) vehicleByID(id string) (domain.Vehicle, bool) {
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

// estimate must be called with s.mu held.
func (s *Simulator) estimate(v domain.Vehicle, stopName string) (ETA, error) {
	target, _, err := s.route.StopByName(stopName)
	if err != nil {
		return ETA{}, err
	}

	coords := s.route.Coordinates
	totalKm := 0.0

	if v.RouteIndex < len(coords) {
		totalKm += domain.DistanceKm(v.Position, coords[v.RouteIndex])
	}

	found := false
	for i := v.RouteIndex; i < len(coords); i++ {
		if domain.DistanceKm(coords[i], target.Location) < domain.ArrivalRadiusKm {
			found = true
			break
		}
		if i+1 < len(coords) {
			totalKm += domain.DistanceKm(coords[i], coords[i+1])
		}
	}
	if !found {
		return ETA{}, fmt.Errorf("vehicle %q to %q: %w", v.ID, stopName, domain.ErrUnreachable)
	}
	if v.SpeedKmh <= 0 {
		return ETA{}, fmt.Errorf("vehicle %q has no speed: %w", v.ID, domain.ErrUnreachable)
	}

	minutes := totalKm / v.SpeedKmh * 60

	targetKm := domain.DistanceKm(v.Position, target.Location)
	for _, stop := range s.route.Stops {
		d := domain.DistanceKm(v.Position, stop.Location)
		if d > domain.ArrivalRadiusKm && d < targetKm {
			minutes += stop.DwellSeconds / 60
		}
	}

	if v.Dwelling {
		minutes += v.DwellRemaining / 60
	}

	return ETA{
		VehicleID:  v.ID,
		StopName:   target.Name,
		Minutes:    round(minutes, 1),
		ArriveAt:   s.now().Add(time.Duration(minutes * float64(time.Minute))),
		DistanceKm: round(totalKm, 3),
	}, nil
}
