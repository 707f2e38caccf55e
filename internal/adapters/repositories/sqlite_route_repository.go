package repositories

import (
	"bus-tracker-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

// Return the stored route, its points in sequence order and its stops in definition order.
func (s *SqliteRouteRepository) LoadRoute(ctx context.Context) (domain.Route, error) {
	if s.DB == nil {
		return domain.Route{}, errors.New("sqlite route repository: DB is nil")
	}

	var route domain.Route
	err := s.DB.QueryRowContext(ctx, `SELECT name FROM route_meta WHERE id = 1;`).Scan(&route.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, fmt.Errorf("load route: %w", domain.ErrEmptyRoute)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: query route_meta table: %w", err)
	}

	pointsQuery := `
	SELECT
		lat,
		lon
	FROM route_points
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, pointsQuery)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: query route_points table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Coordinates
		if err := rows.Scan(&c.Lat, &c.Lon); err != nil {
			return domain.Route{}, fmt.Errorf("load route: scan point: %w", err)
		}
		route.Coordinates = append(route.Coordinates, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Route{}, fmt.Errorf("load route: point iteration: %w", err)
	}
	// Release the connection before the next query; SQLite runs on a single one.
	rows.Close()

	stopsQuery := `
	SELECT
		name,
		lat,
		lon,
		wait_time
	FROM route_stops
	ORDER BY seq;
	`
	stopRows, err := s.DB.QueryContext(ctx, stopsQuery)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: query route_stops table: %w", err)
	}
	defer stopRows.Close()

	for stopRows.Next() {
		var st domain.Stop
		if err := stopRows.Scan(&st.Name, &st.Location.Lat, &st.Location.Lon, &st.DwellSeconds); err != nil {
			return domain.Route{}, fmt.Errorf("load route: scan stop: %w", err)
		}
		route.Stops = append(route.Stops, st)
	}
	if err := stopRows.Err(); err != nil {
		return domain.Route{}, fmt.Errorf("load route: stop iteration: %w", err)
	}

	if err := route.Validate(); err != nil {
		return domain.Route{}, fmt.Errorf("load route: %w", err)
	}
	return route, nil
}
