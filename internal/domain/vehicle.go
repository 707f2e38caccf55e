package domain

import "fmt"

// Vehicle is a simulated bus moving along a Route.
//
// RouteIndex points at the coordinate the vehicle is approaching; Position may lie
// strictly between two route coordinates. A vehicle is either Traveling toward
// RouteIndex or Dwelling at a stop until DwellRemaining runs out.
type Vehicle struct {
	ID             string
	Position       Coordinates
	RouteIndex     int
	Dwelling       bool
	DwellRemaining float64 // seconds
	SpeedKmh       float64
}

// NewVehicle places a traveling vehicle on route coordinate index.
func NewVehicle(id string, route *Route, index int, speedKmh float64) Vehicle {
	v := Vehicle{ID: id, SpeedKmh: speedKmh}
	v.Reposition(route, index)
	return v
}

// Reposition snaps the vehicle onto coordinate index (clamped into range) and clears any dwell.
func (v *Vehicle) Reposition(route *Route, index int) {
	if index > route.LastIndex() {
		index = route.LastIndex()
	}
	if index < 0 {
		index = 0
	}
	v.RouteIndex = index
	v.Position = route.Coordinates[index]
	v.Dwelling = false
	v.DwellRemaining = 0
}

// Advance moves the vehicle forward by elapsedSeconds of simulated time.
//
// A dwelling vehicle only counts down; once the dwell is over it heads for the next
// coordinate without covering distance in the same tick. A traveling vehicle covers
// speed*elapsed toward its target, snapping onto the target when it would reach or
// pass it, and starts dwelling if a stop lies within StopDwellRadiusKm of that target.
func (v *Vehicle) Advance(elapsedSeconds float64, route *Route) {
	if elapsedSeconds <= 0 {
		return
	}

	if v.Dwelling {
		v.DwellRemaining -= elapsedSeconds
		if v.DwellRemaining <= 0 {
			v.Dwelling = false
			v.DwellRemaining = 0
			v.nextIndex(route)
		}
		return
	}

	// Wraparound; the clamp in nextIndex keeps this from triggering in normal operation.
	if v.RouteIndex >= len(route.Coordinates) {
		v.RouteIndex = 0
		v.Position = route.Coordinates[0]
		return
	}

	moveKm := (v.SpeedKmh / 3600) * elapsedSeconds
	target := route.Coordinates[v.RouteIndex]

	toTarget := DistanceKm(v.Position, target)
	if toTarget == 0 {
		v.nextIndex(route)
		return
	}

	if moveKm >= toTarget {
		v.Position = target
		if stop, ok := route.StopNear(target, StopDwellRadiusKm); ok {
			v.Dwelling = true
			v.DwellRemaining = stop.DwellSeconds
			return
		}
		v.nextIndex(route)
		return
	}

	v.Position = Interpolate(v.Position, target, moveKm/toTarget)
}

func (v *Vehicle) nextIndex(route *Route) {
	v.RouteIndex++
	if v.RouteIndex > route.LastIndex() {
		v.RouteIndex = route.LastIndex()
	}
}

func (v Vehicle) String() string {
	state := "traveling"
	if v.Dwelling {
		state = fmt.Sprintf("dwelling(%.0fs)", v.DwellRemaining)
	}
	return fmt.Sprintf("%s@%s idx=%d %s", v.ID, v.Position, v.RouteIndex, state)
}
