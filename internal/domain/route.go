package domain

import "fmt"

// Radius around a route coordinate inside which a vehicle arriving there dwells at a stop.
const StopDwellRadiusKm = 0.02

// Radius inside which a route coordinate counts as the target stop when estimating arrival.
const ArrivalRadiusKm = 0.05

// Represents a named bus stop on a route.
// A Stop is positioned along the route but need not coincide with a route coordinate;
// being "at a stop" is decided by proximity.
type Stop struct {
	Name         string      `json:"name"`
	Location     Coordinates `json:"location"`
	DwellSeconds float64     `json:"dwell_seconds"`
}

// Route is the ordered path vehicles traverse plus its named stops.
// Vehicles follow Coordinates in index order.
type Route struct {
	Name        string
	Coordinates []Coordinates
	Stops       []Stop
}

// Validate reports ErrEmptyRoute when the route cannot be simulated.
func (r *Route) Validate() error {
	if len(r.Coordinates) == 0 {
		return fmt.Errorf("route %q: %w", r.Name, ErrEmptyRoute)
	}
	return nil
}

// StopByName returns the stop and its ordinal in definition order.
func (r *Route) StopByName(name string) (Stop, int, error) {
	for i, s := range r.Stops {
		if s.Name == name {
			return s, i, nil
		}
	}
	return Stop{}, -1, fmt.Errorf("stop %q: %w", name, ErrNotFound)
}

// StopNear returns the first stop within radiusKm of p.
func (r *Route) StopNear(p Coordinates, radiusKm float64) (Stop, bool) {
	for _, s := range r.Stops {
		if DistanceKm(p, s.Location) < radiusKm {
			return s, true
		}
	}
	return Stop{}, false
}

// LastIndex is the highest valid route index.
func (r *Route) LastIndex() int { return len(r.Coordinates) - 1 }

// StopWaypoints lists the stop locations in definition order, the request shape
// directions providers use to build a smoother path through every stop.
func (r *Route) StopWaypoints() []Coordinates {
	out := make([]Coordinates, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Location)
	}
	return out
}

// Clone returns a deep copy.
func (r Route) Clone() Route {
	c := Route{
		Name:        r.Name,
		Coordinates: make([]Coordinates, len(r.Coordinates)),
		Stops:       make([]Stop, len(r.Stops)),
	}
	copy(c.Coordinates, r.Coordinates)
	copy(c.Stops, r.Stops)
	return c
}
