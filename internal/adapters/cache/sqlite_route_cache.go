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

// SQLite backed cache mapping waypoint keys to fetched route geometry.
// Geometry is stored as an encoded polyline.
type SqliteRouteCache struct {
	DB *sql.DB
	// Entries older than TTL are treated as misses; zero keeps entries forever.
	TTL time.Duration

	now func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, ttl time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch cached geometry for key.
func (s *SqliteRouteCache) Get(ctx context.Context, key string) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT
		polyline,
		fetched_at
	FROM route_cache
	WHERE key = ?;
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

// Store geometry for key, replacing any previous entry.
func (s *SqliteRouteCache) Put(ctx context.Context, key, source string, coords []domain.Coordinates) error {
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
	INSERT OR REPLACE INTO route_cache (
		key,
		source,
		polyline,
		fetched_at
	)
	VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, source, polyline.Encode(coords), s.now().Unix()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}

func expired(fetchedAt int64, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(time.Unix(fetchedAt, 0)) > ttl
}
