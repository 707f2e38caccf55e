package dto

import "time"

type StatusResponse struct {
	Position       PositionResponse `json:"position"`
	IsMoving       bool             `json:"is_moving"`
	NearestStop    *string          `json:"nearest_stop"`
	DistanceToStop *float64         `json:"distance_to_stop"`
	CurrentTime    string           `json:"current_time"`
	SpeedKmh       float64          `json:"speed_kmh"`
}

// ETAResponse carries either an estimate or the reason there is none.
type ETAResponse struct {
	StopName   string     `json:"stop_name"`
	VehicleID  string     `json:"vehicle_id,omitempty"`
	ETAMinutes *float64   `json:"eta_minutes"`
	ETATime    string     `json:"eta_time,omitempty"`
	ArriveAt   *time.Time `json:"arrive_at,omitempty"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type ListETAsResponse struct {
	ETAs        []ETAResponse `json:"etas"`
	CurrentTime string        `json:"current_time"`
}

type StopResponse struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	WaitTime float64 `json:"wait_time"`
}

type RouteResponse struct {
	RouteName   string         `json:"route_name"`
	Stops       []StopResponse `json:"stops"`
	Coordinates [][2]float64   `json:"coordinates"`
	TotalStops  int            `json:"total_stops"`
}

type DirectionsResponse struct {
	Source      string       `json:"source"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type NotificationResponse struct {
	ShouldNotify bool     `json:"should_notify"`
	ETAMinutes   *float64 `json:"eta_minutes"`
	ETATime      string   `json:"eta_time,omitempty"`
}
