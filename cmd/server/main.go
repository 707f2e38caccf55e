package main

import (
	"bus-tracker-service/internal/adapters/cache"
	"bus-tracker-service/internal/adapters/directions"
	"bus-tracker-service/internal/adapters/repositories"
	"bus-tracker-service/internal/api"
	"bus-tracker-service/internal/api/dto"
	"bus-tracker-service/internal/api/handlers"
	"bus-tracker-service/internal/api/realtime"
	"bus-tracker-service/internal/config"
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/db"
	"bus-tracker-service/internal/ports"
	"bus-tracker-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires the route source, directions providers and caches behind ports,
// then runs the simulation loop and the HTTP server until a signal arrives.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	res := &resources{}
	defer res.close()

	route, err := loadRoute(ctx, cfg, res)
	if err != nil {
		return err
	}
	log.Printf("route loaded name=%s points=%d stops=%d", route.Name, len(route.Coordinates), len(route.Stops))

	routeCache, err := newRouteCache(cfg, res)
	if err != nil {
		return err
	}
	provider := newDirectionsProvider(cfg, routeCache)

	sim, err := services.NewSimulator(route, cfg.VehicleCount, nil)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if cfg.FetchDirections {
		refreshRoute(ctx, sim, provider, route)
	}

	hub := realtime.NewHub(func() any {
		return vehiclesMessage(sim.Vehicles())
	}, cfg.CORSAllowedOrigins)

	router := api.NewRouter(api.Deps{
		Sim:            sim,
		Directions:     provider,
		Hub:            hub,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// WriteTimeout stays zero: websocket connections outlive any request deadline
	// and the hub sets its own per-message write deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return services.Run(ctx, sim, cfg.TickInterval, func(vs []services.VehicleSnapshot) {
			hub.Broadcast(vehiclesMessage(vs))
		})
	})

	g.Go(func() error {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func vehiclesMessage(vs []services.VehicleSnapshot) dto.VehiclesMessage {
	return dto.VehiclesMessage{Type: "vehicles", Vehicles: handlers.ToVehicleResponses(vs)}
}

// refreshRoute swaps the configured polyline for a road-following one. Failure keeps
// the configured coordinates.
func refreshRoute(ctx context.Context, sim *services.Simulator, provider ports.DirectionsProvider, route domain.Route) {
	waypoints := route.StopWaypoints()
	if len(waypoints) < 2 {
		log.Printf("route refresh skipped: stops=%d", len(waypoints))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := provider.GetDirections(ctx, waypoints)
	if err != nil {
		log.Printf("route refresh failed, keeping configured coordinates: err=%v", err)
		return
	}

	sim.ReplaceRoute(res.Coordinates)
	log.Printf("route replaced source=%s points=%d", res.Source, len(res.Coordinates))
}

// resources tracks connections opened during startup so run can release them.
type resources struct {
	sqlite  *sql.DB
	closers []func() error
}

func (r *resources) sqliteDB(path string) (*sql.DB, error) {
	if r.sqlite != nil {
		return r.sqlite, nil
	}

	conn, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	r.sqlite = conn
	r.closers = append(r.closers, conn.Close)
	return conn, nil
}

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			log.Printf("close failed: err=%v", err)
		}
	}
}

func loadRoute(ctx context.Context, cfg *config.Config, res *resources) (domain.Route, error) {
	var repo ports.RouteRepository

	switch cfg.RouteSource {
	case "sqlite":
		conn, err := res.sqliteDB(cfg.DBPath)
		if err != nil {
			return domain.Route{}, fmt.Errorf("load route: %w", err)
		}
		repo = repositories.NewSqliteRouteRepository(conn)
	default:
		repo = repositories.NewFileRouteRepository(cfg.RouteFile)
	}

	route, err := repo.LoadRoute(ctx)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: %w", err)
	}
	return route, nil
}

func newRouteCache(cfg *config.Config, res *resources) (ports.RouteCache, error) {
	switch cfg.RouteCache {
	case "sqlite":
		conn, err := res.sqliteDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("route cache: %w", err)
		}
		return cache.NewSqliteRouteCache(conn, cfg.RouteCacheTTL), nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("route cache: %w", err)
		}
		res.closers = append(res.closers, conn.Close)
		if err := repositories.InitSchema(conn); err != nil {
			return nil, fmt.Errorf("route cache: %w", err)
		}
		return cache.NewSQLRouteCache(conn, cfg.RouteCacheTTL), nil

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("route cache: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		res.closers = append(res.closers, client.Close)
		return cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), nil

	default:
		return nil, nil
	}
}

// newDirectionsProvider chains Google, ORS and OSRM in that order, skipping
// providers without credentials, and fronts the chain with the route cache.
func newDirectionsProvider(cfg *config.Config, routeCache ports.RouteCache) ports.DirectionsProvider {
	var chain []ports.DirectionsProvider

	if cfg.GoogleMapsAPIKey != "" {
		p, err := directions.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey, "")
		if err != nil {
			log.Printf("google directions disabled: err=%v", err)
		} else {
			chain = append(chain, p)
		}
	}
	if cfg.ORSAPIKey != "" {
		p, err := directions.NewORSDirectionsProvider(cfg.ORSAPIKey, "")
		if err != nil {
			log.Printf("ors directions disabled: err=%v", err)
		} else {
			chain = append(chain, p)
		}
	}
	chain = append(chain, directions.NewOSRMDirectionsProvider(cfg.OSRMBaseURL))

	var provider ports.DirectionsProvider = directions.NewFallbackProvider(chain...)
	if routeCache != nil {
		provider = directions.NewCachingProvider(provider, routeCache)
	}
	return provider
}
