package domain

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinates
		want float64
	}{
		{"same point", Coordinates{Lat: 5.6, Lon: -0.2}, Coordinates{Lat: 5.6, Lon: -0.2}, 0},
		{"one degree on equator", Coordinates{Lat: 0, Lon: 0}, Coordinates{Lat: 0, Lon: 1}, EarthRadiusKm * math.Pi / 180},
		{"one degree of latitude", Coordinates{Lat: 10, Lon: 3}, Coordinates{Lat: 11, Lon: 3}, EarthRadiusKm * math.Pi / 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("DistanceKm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	points := []Coordinates{
		{Lat: 5.5560, Lon: -0.1969},
		{Lat: 5.6037, Lon: -0.1870},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5074, Lon: -0.1278},
	}

	for _, a := range points {
		if d := DistanceKm(a, a); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range points {
			ab, ba := DistanceKm(a, b), DistanceKm(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("DistanceKm not symmetric for %v, %v: %v vs %v", a, b, ab, ba)
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	from := Coordinates{Lat: 0, Lon: 0}
	to := Coordinates{Lat: 2, Lon: -4}

	got := Interpolate(from, to, 0.25)
	if got.Lat != 0.5 || got.Lon != -1 {
		t.Fatalf("Interpolate = %v, want 0.5,-1", got)
	}
	if got := Interpolate(from, to, 1); got != to {
		t.Fatalf("Interpolate(1) = %v, want %v", got, to)
	}
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates(" 5.556, -0.1969 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 5.556 || c.Lon != -0.1969 {
		t.Fatalf("ParseCoordinates = %v", c)
	}
	if c.String() != "5.556,-0.1969" {
		t.Fatalf("String = %q", c.String())
	}

	for _, bad := range []string{"", "1", "a,b", "1,2,3"} {
		if _, err := ParseCoordinates(bad); err == nil {
			t.Errorf("ParseCoordinates(%q) expected error", bad)
		}
	}
}
