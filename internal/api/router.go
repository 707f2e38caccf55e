package api

import (
	"bus-tracker-service/internal/api/handlers"
	"bus-tracker-service/internal/api/realtime"
	"bus-tracker-service/internal/ports"
	"bus-tracker-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const Version = "1.0.0"

// Dependencies the HTTP layer needs. Directions and Hub may be nil.
type Deps struct {
	Sim            *services.Simulator
	Directions     ports.DirectionsProvider
	Hub            *realtime.Hub
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	bus := &handlers.BusHandler{Sim: deps.Sim}
	vehicles := &handlers.VehicleHandler{Sim: deps.Sim}
	directions := &handlers.DirectionsHandler{Sim: deps.Sim, Provider: deps.Directions}
	feed := &handlers.GTFSRealtimeHandler{Sim: deps.Sim}

	r.Get("/", handlers.Index(Version))
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bus", bus.Status)
		r.Get("/route", bus.Route)
		r.Get("/eta", bus.ETAs)
		r.Get("/eta/{stopName}", bus.StopETA)
		r.Get("/notifications/{stopName}/{minutesBefore}", bus.Notification)

		r.Get("/directions", directions.Directions)

		r.Get("/vehicles", vehicles.List)
		r.Get("/vehicles/{vehicleID}/eta", vehicles.ETA)
		r.Get("/nearest_vehicle", vehicles.Nearest)
		r.Get("/nearest_vehicle_to_stop", vehicles.NearestToStop)
	})

	r.Get("/gtfs-rt/vehicle-positions", feed.VehiclePositions)

	if deps.Hub != nil {
		r.Get("/ws", deps.Hub.ServeWS)
	}

	return r
}
