package domain

import "errors"

// Failure kinds returned at the query boundary. Callers match them with errors.Is.
var (
	// Unknown vehicle id or stop name.
	ErrNotFound = errors.New("not found")
	// Target stop is not on the vehicle's remaining forward walk.
	ErrUnreachable = errors.New("stop not on remaining route")
	// The fleet has no vehicles.
	ErrEmptyFleet = errors.New("no vehicles available")
	// A route needs at least one coordinate.
	ErrEmptyRoute = errors.New("route has no coordinates")
	// A directions provider answered without a usable geometry.
	ErrNoRoute = errors.New("no route geometry returned")
)
