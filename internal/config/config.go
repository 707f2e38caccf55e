// Package config reads process settings from the environment (optionally seeded from .env).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string        `validate:"required,numeric"`
	RouteSource  string        `validate:"oneof=file sqlite"`
	RouteFile    string        `validate:"required_if=RouteSource file"`
	VehicleCount int           `validate:"gte=0,lte=100"`
	TickInterval time.Duration `validate:"gt=0"`

	GoogleMapsAPIKey string
	ORSAPIKey        string
	OSRMBaseURL      string `validate:"omitempty,url"`
	FetchDirections  bool

	RouteCache    string        `validate:"oneof=none sqlite postgres redis"`
	DBPath        string        `validate:"required_if=RouteCache sqlite"`
	DatabaseURL   string        `validate:"required_if=RouteCache postgres"`
	RedisURL      string        `validate:"required_if=RouteCache redis"`
	RouteCacheTTL time.Duration `validate:"gte=0"`

	CORSAllowedOrigins []string `validate:"min=1"`
}

var validate = validator.New()

// LoadDotEnv loads .env into the process environment when present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	vehicles, err := getEnvInt("VEHICLE_COUNT", 3)
	if err != nil {
		return nil, err
	}
	tick, err := getEnvDuration("TICK_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("ROUTE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	fetch, err := getEnvBool("FETCH_DIRECTIONS", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               Get("PORT", "8000"),
		RouteSource:        Get("ROUTE_SOURCE", "file"),
		RouteFile:          Get("ROUTE_FILE", "data/routes.json"),
		VehicleCount:       vehicles,
		TickInterval:       tick,
		GoogleMapsAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		ORSAPIKey:          strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		OSRMBaseURL:        Get("OSRM_BASE_URL", "https://router.project-osrm.org"),
		FetchDirections:    fetch,
		RouteCache:         Get("ROUTE_CACHE", "sqlite"),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RouteCacheTTL:      ttl,
		CORSAllowedOrigins: splitList(Get("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.RouteSource == "sqlite" && cfg.DBPath == "" {
		return nil, fmt.Errorf("config: DB_PATH is required when ROUTE_SOURCE=sqlite")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
