package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

// Index describes the service and its main endpoints.
func Index(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"message": "Bus Tracker API",
			"version": version,
			"endpoints": map[string]string{
				"bus_status":        "/api/bus",
				"eta":               "/api/eta",
				"route":             "/api/route",
				"vehicles":          "/api/vehicles",
				"vehicle_positions": "/gtfs-rt/vehicle-positions",
				"websocket":         "/ws",
			},
		})
	}
}
