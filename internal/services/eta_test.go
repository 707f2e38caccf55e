package services

import (
	"bus-tracker-service/internal/domain"
	"errors"
	"testing"
	"time"
)

func TestETAToStopAhead(t *testing.T) {
	sim, clock := newTestSimulator(t, 1)
	segment := domain.DistanceKm(domain.Coordinates{}, domain.Coordinates{Lat: 0, Lon: 1})

	eta, err := sim.ETA("bus-1", "Middle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMinutes := round(segment/25*60, 1)
	if eta.Minutes != wantMinutes {
		t.Fatalf("minutes = %v, want %v", eta.Minutes, wantMinutes)
	}
	if eta.DistanceKm != round(segment, 3) {
		t.Fatalf("distance = %v, want %v", eta.DistanceKm, round(segment, 3))
	}
	if eta.VehicleID != "bus-1" || eta.StopName != "Middle" {
		t.Fatalf("eta = %+v", eta)
	}
	if !eta.ArriveAt.After(clock.Now()) {
		t.Fatalf("arrive at %v is not after now %v", eta.ArriveAt, clock.Now())
	}
}

func TestETAAddsDwellOfIntermediateStops(t *testing.T) {
	sim, _ := newTestSimulator(t, 1)
	segment := domain.DistanceKm(domain.Coordinates{}, domain.Coordinates{Lat: 0, Lon: 1})

	eta, err := sim.ETA("bus-1", "End")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two segments of travel plus the 30s dwell at Middle.
	want := round(2*segment/25*60+0.5, 1)
	if eta.Minutes != want {
		t.Fatalf("minutes = %v, want %v", eta.Minutes, want)
	}
}

func TestETAWhileDwelling(t *testing.T) {
	sim, _ := newTestSimulator(t, 1)
	segment := domain.DistanceKm(domain.Coordinates{}, domain.Coordinates{Lat: 0, Lon: 1})

	sim.AdvanceBy(1)
	sim.AdvanceBy(segment/25*3600 + 1)
	sim.AdvanceBy(6)

	eta, err := sim.ETA("bus-1", "Middle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eta.Minutes != 0.4 {
		t.Fatalf("minutes = %v, want 0.4 (remaining dwell only)", eta.Minutes)
	}
	if eta.DistanceKm != 0 {
		t.Fatalf("distance = %v, want 0", eta.DistanceKm)
	}
}

func TestETAUnknownStop(t *testing.T) {
	sim, _ := newTestSimulator(t, 2)

	_, err := sim.ETA("bus-1", "Nowhere")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_, _, err = sim.NearestVehicleToStop("Nowhere")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("NearestVehicleToStop err = %v, want ErrNotFound", err)
	}
}

func TestETAUnknownVehicle(t *testing.T) {
	sim, _ := newTestSimulator(t, 2)

	_, err := sim.ETA("bus-9", "Middle")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestETAStopBehindVehicle(t *testing.T) {
	sim, _ := newTestSimulator(t, 3)

	_, err := sim.ETA("bus-3", "Start")
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
}

func TestAllETAs(t *testing.T) {
	sim, _ := newTestSimulator(t, 2)

	all, err := sim.AllETAs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("etas = %d, want 3", len(all))
	}
	for i, name := range []string{"Start", "Middle", "End"} {
		if all[i].StopName != name {
			t.Fatalf("eta %d stop = %q, want %q", i, all[i].StopName, name)
		}
		if all[i].Err != nil {
			t.Fatalf("eta %d: unexpected error %v", i, all[i].Err)
		}
	}
	if all[0].ETA.Minutes != 0 {
		t.Fatalf("ETA to the stop the bus sits on = %v, want 0", all[0].ETA.Minutes)
	}
}

func TestNearestVehicleToStop(t *testing.T) {
	sim, _ := newTestSimulator(t, 3)

	v, eta, err := sim.NearestVehicleToStop("End")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eta.VehicleID != "bus-3" || eta.Minutes != 0 {
		t.Fatalf("nearest = %+v, want bus-3 at 0 minutes", eta)
	}
	if v.ID != eta.VehicleID || v.Position != (domain.Coordinates{Lat: 0, Lon: 2}) {
		t.Fatalf("vehicle = %+v, want bus-3 at End", v)
	}

	// Only bus-1 can still reach Start.
	v, eta, err = sim.NearestVehicleToStop("Start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eta.VehicleID != "bus-1" || v.ID != "bus-1" {
		t.Fatalf("nearest to Start = %q (vehicle %q), want bus-1", eta.VehicleID, v.ID)
	}
}

func TestShouldNotify(t *testing.T) {
	sim, _ := newTestSimulator(t, 1)
	segment := domain.DistanceKm(domain.Coordinates{}, domain.Coordinates{Lat: 0, Lon: 1})
	minutes := segment / 25 * 60

	tests := []struct {
		name   string
		stop   string
		before float64
		want   bool
	}{
		{"within window", "Middle", minutes + 5, true},
		{"outside window", "Middle", 1, false},
		{"already there", "Start", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := sim.ShouldNotify(tt.stop, tt.before)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ShouldNotify(%q, %v) = %v, want %v", tt.stop, tt.before, got, tt.want)
			}
		})
	}
}

func TestETAArriveAtTracksClock(t *testing.T) {
	sim, clock := newTestSimulator(t, 1)

	first, err := sim.PrimaryETA("Middle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Minute)
	second, err := sim.PrimaryETA("Middle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := second.ArriveAt.Sub(first.ArriveAt); got != time.Minute {
		t.Fatalf("arrive at moved by %v without a tick, want 1m", got)
	}
}
