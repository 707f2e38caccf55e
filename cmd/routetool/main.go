// Command routetool prepares route storage: it creates the schema, seeds a route
// from a file into SQLite, and warms the directions cache.
//
// Usage:
//
//	routetool init  [-db sqlite|postgres]
//	routetool seed  [-file data/routes.json]
//	routetool fetch [-file data/routes.json]
package main

import (
	"bus-tracker-service/internal/adapters/cache"
	"bus-tracker-service/internal/adapters/directions"
	"bus-tracker-service/internal/adapters/repositories"
	"bus-tracker-service/internal/config"
	"bus-tracker-service/internal/platform/db"
	"bus-tracker-service/internal/ports"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

func main() {
	config.LoadDotEnv()

	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = initCmd(os.Args[2:])
	case "seed":
		err = seedCmd(os.Args[2:])
	case "fetch":
		err = fetchCmd(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: routetool init|seed|fetch [flags]")
	os.Exit(2)
}

func initCmd(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	backend := fs.String("db", "sqlite", "database to initialize: sqlite or postgres")
	_ = fs.Parse(args)

	conn, err := openDatabase(*backend)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func seedCmd(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	path := fs.String("file", config.Get("ROUTE_FILE", "data/routes.json"), "route file to store")
	_ = fs.Parse(args)

	route, err := repositories.LoadRouteFile(*path)
	if err != nil {
		return err
	}

	conn, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	log.Println("Seeding database...")
	if err := repositories.SeedRoute(conn, route); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. route=%s points=%d stops=%d", route.Name, len(route.Coordinates), len(route.Stops))
	return nil
}

// fetchCmd resolves the road path through the route's stops and stores it in the
// SQLite route cache so the server starts without an upstream call.
func fetchCmd(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	path := fs.String("file", config.Get("ROUTE_FILE", "data/routes.json"), "route file whose stops are fetched")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	route, err := repositories.LoadRouteFile(*path)
	if err != nil {
		return err
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	var upstream []ports.DirectionsProvider
	if cfg.GoogleMapsAPIKey != "" {
		if p, err := directions.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey, ""); err == nil {
			upstream = append(upstream, p)
		}
	}
	if cfg.ORSAPIKey != "" {
		if p, err := directions.NewORSDirectionsProvider(cfg.ORSAPIKey, ""); err == nil {
			upstream = append(upstream, p)
		}
	}
	upstream = append(upstream, directions.NewOSRMDirectionsProvider(cfg.OSRMBaseURL))

	provider := directions.NewCachingProvider(
		directions.NewFallbackProvider(upstream...),
		cache.NewSqliteRouteCache(conn, cfg.RouteCacheTTL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := provider.GetDirections(ctx, route.StopWaypoints())
	if err != nil {
		return fmt.Errorf("fetch directions: %w", err)
	}
	log.Printf("Route cached. source=%s points=%d key=%s", res.Source, len(res.Coordinates), directions.CacheKey(route.StopWaypoints()))
	return nil
}

func openDatabase(backend string) (*sql.DB, error) {
	switch backend {
	case "sqlite":
		return db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		return db.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unknown database %q", backend)
	}
}
