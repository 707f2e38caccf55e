// Package polyline converts between route geometry and the encoded polyline
// format (precision 1e-5, latitude first) used by Google and OSRM.
package polyline

import (
	"bus-tracker-service/internal/domain"
	"fmt"

	"github.com/twpayne/go-polyline"
)

func Decode(encoded string) ([]domain.Coordinates, error) {
	raw, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	out := make([]domain.Coordinates, 0, len(raw))
	for _, p := range raw {
		out = append(out, domain.Coordinates{Lat: p[0], Lon: p[1]})
	}
	return out, nil
}

func Encode(coords []domain.Coordinates) string {
	raw := make([][]float64, 0, len(coords))
	for _, c := range coords {
		raw = append(raw, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(raw))
}
