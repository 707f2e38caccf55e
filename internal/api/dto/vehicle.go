package dto

type PositionResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type VehicleResponse struct {
	ID           string           `json:"id"`
	Position     PositionResponse `json:"position"`
	IsAtStop     bool             `json:"is_at_stop"`
	SpeedKmh     float64          `json:"speed_kmh"`
	CurrentIndex int              `json:"current_index"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

type NearestVehicleResponse struct {
	Vehicle    VehicleResponse `json:"vehicle"`
	DistanceKm float64         `json:"distance_km"`
}

type NearestVehicleToStopResponse struct {
	Vehicle    VehicleResponse `json:"vehicle"`
	ETAMinutes float64         `json:"eta_minutes"`
	ETA        ETAResponse     `json:"eta"`
}

// VehiclesMessage is pushed to realtime subscribers after every tick.
type VehiclesMessage struct {
	Type     string            `json:"type"`
	Vehicles []VehicleResponse `json:"vehicles"`
}
