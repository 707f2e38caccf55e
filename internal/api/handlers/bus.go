package handlers

import (
	"bus-tracker-service/internal/api/dto"
	"bus-tracker-service/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// BusHandler serves the primary-vehicle views: status, route and ETAs.
type BusHandler struct {
	Sim *services.Simulator
}

func (h *BusHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.Sim.Status()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.StatusResponse{
		Position:    dto.PositionResponse{Lat: st.Position.Lat, Lon: st.Position.Lon},
		IsMoving:    st.Moving,
		CurrentTime: st.CurrentTime.Format(clockFormat),
		SpeedKmh:    st.SpeedKmh,
	}
	if st.NearestStop != "" {
		name, d := st.NearestStop, st.DistanceToStopKm
		res.NearestStop = &name
		res.DistanceToStop = &d
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *BusHandler) Route(w http.ResponseWriter, r *http.Request) {
	route := h.Sim.Route()

	stops := make([]dto.StopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, dto.StopResponse{
			Name:     s.Name,
			Lat:      s.Location.Lat,
			Lon:      s.Location.Lon,
			WaitTime: s.DwellSeconds,
		})
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		RouteName:   route.Name,
		Stops:       stops,
		Coordinates: coordinatePairs(route.Coordinates),
		TotalStops:  len(stops),
	})
}

// ETAs lists the primary vehicle's ETA to every stop. Stops without an estimate carry an error.
func (h *BusHandler) ETAs(w http.ResponseWriter, r *http.Request) {
	all, err := h.Sim.AllETAs()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListETAsResponse{
		ETAs:        make([]dto.ETAResponse, 0, len(all)),
		CurrentTime: h.Sim.LastTick().Format(clockFormat),
	}
	for _, e := range all {
		res.ETAs = append(res.ETAs, toETAResponse(e.StopName, e.ETA, e.Err))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *BusHandler) StopETA(w http.ResponseWriter, r *http.Request) {
	stopName := chi.URLParam(r, "stopName")

	eta, err := h.Sim.PrimaryETA(stopName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toETAResponse(stopName, eta, nil))
}

// Notification reports whether a rider waiting at a stop should be alerted now.
func (h *BusHandler) Notification(w http.ResponseWriter, r *http.Request) {
	stopName := chi.URLParam(r, "stopName")

	minutesBefore, err := strconv.ParseFloat(chi.URLParam(r, "minutesBefore"), 64)
	if err != nil || minutesBefore < 0 {
		writeError(w, r, http.StatusBadRequest, "minutes_before must be a non-negative number")
		return
	}

	notify, eta, err := h.Sim.ShouldNotify(stopName, minutesBefore)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	minutes := eta.Minutes
	writeJSON(w, r, http.StatusOK, dto.NotificationResponse{
		ShouldNotify: notify,
		ETAMinutes:   &minutes,
		ETATime:      eta.ArriveAt.Format(etaFormat),
	})
}
