package handlers

import (
	"bus-tracker-service/internal/api/dto"
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/services"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
)

const (
	clockFormat = "15:04:05"
	etaFormat   = "15:04"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps engine failures to HTTP statuses. Unknown errors are logged
// and reported as 500 without their detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnreachable):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrEmptyFleet):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toVehicleResponse(v services.VehicleSnapshot) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:           v.ID,
		Position:     dto.PositionResponse{Lat: v.Position.Lat, Lon: v.Position.Lon},
		IsAtStop:     v.Dwelling,
		SpeedKmh:     v.SpeedKmh,
		CurrentIndex: v.RouteIndex,
	}
}

// ToVehicleResponses converts a fleet snapshot for JSON output.
func ToVehicleResponses(vs []services.VehicleSnapshot) []dto.VehicleResponse {
	out := make([]dto.VehicleResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVehicleResponse(v))
	}
	return out
}

func toETAResponse(stopName string, eta services.ETA, err error) dto.ETAResponse {
	if err != nil {
		return dto.ETAResponse{StopName: stopName, Error: err.Error()}
	}

	minutes := eta.Minutes
	distance := eta.DistanceKm
	arrive := eta.ArriveAt
	return dto.ETAResponse{
		StopName:   stopName,
		VehicleID:  eta.VehicleID,
		ETAMinutes: &minutes,
		ETATime:    eta.ArriveAt.Format(etaFormat),
		ArriveAt:   &arrive,
		DistanceKm: &distance,
	}
}

func coordinatePairs(coords []domain.Coordinates) [][2]float64 {
	out := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, [2]float64{c.Lat, c.Lon})
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
