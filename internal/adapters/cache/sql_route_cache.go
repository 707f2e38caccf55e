package cache

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/obs"
	"bus-tracker-service/internal/platform/polyline"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLRouteCache is a Postgres-backed cache mapping waypoint keys to route geometry.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch cached geometry for key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT polyline, fetched_at
	FROM route_cache
	WHERE key = $1;
	`

	var encoded string
	var fetchedAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&encoded, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if expired(fetchedAt, s.TTL, s.now()) {
		return nil, false, nil
	}

	coords, err := polyline.Decode(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return coords, true, nil
}

// Store geometry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key, source string, coords []domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: empty key")
	}
	if len(coords) == 0 {
		return fmt.Errorf("insert route cache key=%q: %w", key, domain.ErrNoRoute)
	}

	q := `
	INSERT INTO route_cache (key, source, polyline, fetched_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (key) DO UPDATE
	SET source = EXCLUDED.source,
		polyline = EXCLUDED.polyline,
		fetched_at = EXCLUDED.fetched_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, source, polyline.Encode(coords), s.now().Unix()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
