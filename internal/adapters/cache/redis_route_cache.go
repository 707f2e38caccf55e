package cache

import (
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/obs"
	"bus-tracker-service/internal/platform/polyline"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route_cache:"

type redisRouteEntry struct {
	Source    string `json:"source"`
	Polyline  string `json:"polyline"`
	FetchedAt int64  `json:"fetched_at"`
}

// RedisRouteCache stores route geometry in Redis; expiry is left to Redis via TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Fetch cached geometry for key.
func (r *RedisRouteCache) Get(ctx context.Context, key string) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("route cache: redis client is nil")
	}

	raw, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var entry redisRouteEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("get route cache key=%q: decode entry: %w", key, err)
	}

	coords, err := polyline.Decode(entry.Polyline)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return coords, true, nil
}

// Store geometry for key with the configured TTL.
func (r *RedisRouteCache) Put(ctx context.Context, key, source string, coords []domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: empty key")
	}
	if len(coords) == 0 {
		return fmt.Errorf("insert route cache key=%q: %w", key, domain.ErrNoRoute)
	}

	raw, err := json.Marshal(redisRouteEntry{
		Source:    source,
		Polyline:  polyline.Encode(coords),
		FetchedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: encode entry: %w", key, err)
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+key, raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
