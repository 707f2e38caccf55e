package repositories

import (
	"bus-tracker-service/internal/domain"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The statements are valid for both SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		key TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		polyline TEXT NOT NULL,
		fetched_at BIGINT NOT NULL
	);
	`

	createRouteMetaQuery := `
	CREATE TABLE IF NOT EXISTS route_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL
	);
	`

	createRoutePointsQuery := `
	CREATE TABLE IF NOT EXISTS route_points (
		seq INTEGER PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createRouteStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		seq INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		wait_time REAL NOT NULL DEFAULT 0
	);
	`

	statements := []string{
		createRouteCacheQuery,
		createRouteMetaQuery,
		createRoutePointsQuery,
		createRouteStopsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the stored route with route. SQLite only.
func SeedRoute(db *sql.DB, route domain.Route) error {
	if db == nil {
		return errors.New("seed route: DB is nil")
	}
	if err := route.Validate(); err != nil {
		return fmt.Errorf("seed route: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed route: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"route_meta", "route_points", "route_stops"} {
		if _, err := tx.Exec("DELETE FROM " + table + ";"); err != nil {
			return fmt.Errorf("seed route: clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO route_meta (id, name) VALUES (1, ?);`, route.Name); err != nil {
		return fmt.Errorf("seed route: insert name: %w", err)
	}

	pointStmt, err := tx.Prepare(`
	INSERT INTO route_points (
		seq,
		lat,
		lon
	)
	VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed route: prepare points insert: %w", err)
	}
	defer pointStmt.Close()

	for i, c := range route.Coordinates {
		if _, err := pointStmt.Exec(i, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("seed route: insert point seq=%d: %w", i, err)
		}
	}

	stopStmt, err := tx.Prepare(`
	INSERT INTO route_stops (
		seq,
		name,
		lat,
		lon,
		wait_time
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed route: prepare stops insert: %w", err)
	}
	defer stopStmt.Close()

	for i, s := range route.Stops {
		if _, err := stopStmt.Exec(i, s.Name, s.Location.Lat, s.Location.Lon, s.DwellSeconds); err != nil {
			return fmt.Errorf("seed route: insert stop %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed route: commit tx: %w", err)
	}

	return nil
}
