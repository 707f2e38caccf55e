package handlers

import (
	"bus-tracker-service/internal/api/dto"
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type VehicleHandler struct {
	Sim *services.Simulator
}

// List returns every vehicle, or only those between from_stop and to_stop when both are given.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from_stop"))
	to := strings.TrimSpace(r.URL.Query().Get("to_stop"))

	var vs []services.VehicleSnapshot
	if from != "" && to != "" {
		vs = h.Sim.VehiclesBetween(from, to)
	} else {
		vs = h.Sim.Vehicles()
	}

	writeJSON(w, r, http.StatusOK, dto.ListVehiclesResponse{Vehicles: ToVehicleResponses(vs)})
}

func (h *VehicleHandler) ETA(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")

	stopName := strings.TrimSpace(r.URL.Query().Get("stop_name"))
	if stopName == "" {
		writeError(w, r, http.StatusBadRequest, "stop_name query parameter required")
		return
	}

	eta, err := h.Sim.ETA(vehicleID, stopName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toETAResponse(stopName, eta, nil))
}

// Nearest returns the vehicle closest to ?lat=&lon= with its distance rounded to meters.
func (h *VehicleHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon query parameters required")
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, r, http.StatusBadRequest, "lat/lon out of range")
		return
	}

	v, d, err := h.Sim.NearestVehicle(domain.Coordinates{Lat: lat, Lon: lon})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NearestVehicleResponse{
		Vehicle:    toVehicleResponse(v),
		DistanceKm: roundTo(d, 3),
	})
}

func (h *VehicleHandler) NearestToStop(w http.ResponseWriter, r *http.Request) {
	stopName := strings.TrimSpace(r.URL.Query().Get("stop_name"))
	if stopName == "" {
		writeError(w, r, http.StatusBadRequest, "stop_name query parameter required")
		return
	}

	v, eta, err := h.Sim.NearestVehicleToStop(stopName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NearestVehicleToStopResponse{
		Vehicle:    toVehicleResponse(v),
		ETAMinutes: eta.Minutes,
		ETA:        toETAResponse(stopName, eta, nil),
	})
}
