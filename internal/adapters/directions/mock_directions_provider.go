package directions

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/ports"
	"context"
	"sync/atomic"
)

// MockDirectionsProvider returns a fixed result (or error) and counts calls.
type MockDirectionsProvider struct {
	Result ports.DirectionsResult
	Err    error

	calls atomic.Int64
}

func NewMockDirectionsProvider(source string, coords []domain.Coordinates) *MockDirectionsProvider {
	return &MockDirectionsProvider{
		Result: ports.DirectionsResult{Coordinates: coords, Source: source},
	}
}

func (m *MockDirectionsProvider) GetDirections(ctx context.Context, waypoints []domain.Coordinates) (ports.DirectionsResult, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return ports.DirectionsResult{}, m.Err
	}

	out := m.Result
	out.Coordinates = append([]domain.Coordinates(nil), m.Result.Coordinates...)
	return out, nil
}

// Calls reports how many times GetDirections ran.
func (m *MockDirectionsProvider) Calls() int {
	return int(m.calls.Load())
}
