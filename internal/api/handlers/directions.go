package handlers

import (
	"bus-tracker-service/internal/api/dto"
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/ports"
	"bus-tracker-service/internal/services"
	"log"
	"net/http"
	"strings"
)

// DirectionsHandler proxies a directions lookup through the configured provider chain.
type DirectionsHandler struct {
	Sim      *services.Simulator
	Provider ports.DirectionsProvider
}

// Directions fetches a path from ?origin= to ?destination= (both "lat,lng") via the
// route's intermediate stops. Missing endpoints default to the first and last stop.
func (h *DirectionsHandler) Directions(w http.ResponseWriter, r *http.Request) {
	if h.Provider == nil {
		writeError(w, r, http.StatusServiceUnavailable, "directions provider not configured")
		return
	}

	stops := h.Sim.Route().Stops
	q := r.URL.Query()

	origin, ok := h.endpoint(w, r, q.Get("origin"), stops, 0)
	if !ok {
		return
	}
	destination, ok := h.endpoint(w, r, q.Get("destination"), stops, len(stops)-1)
	if !ok {
		return
	}

	waypoints := []domain.Coordinates{origin}
	if len(stops) > 2 {
		for _, s := range stops[1 : len(stops)-1] {
			waypoints = append(waypoints, s.Location)
		}
	}
	waypoints = append(waypoints, destination)

	res, err := h.Provider.GetDirections(r.Context(), waypoints)
	if err != nil {
		log.Printf("directions lookup failed: path=%s err=%v", r.URL.Path, err)
		writeError(w, r, http.StatusBadGateway, "directions lookup failed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DirectionsResponse{
		Source:      res.Source,
		Coordinates: coordinatePairs(res.Coordinates),
	})
}

// endpoint parses raw, or falls back to stops[idx] when raw is empty. It writes the
// 400 response itself and reports false when neither is usable.
func (h *DirectionsHandler) endpoint(
	w http.ResponseWriter,
	r *http.Request,
	raw string,
	stops []domain.Stop,
	idx int,
) (domain.Coordinates, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if len(stops) < 2 {
			writeError(w, r, http.StatusBadRequest, "origin/destination required or route stops insufficient")
			return domain.Coordinates{}, false
		}
		return stops[idx].Location, true
	}

	c, err := domain.ParseCoordinates(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return domain.Coordinates{}, false
	}
	return c, true
}
