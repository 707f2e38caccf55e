package repositories

import (
	"bus-tracker-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type routeDocument struct {
	BusRoute *routeEntry `json:"bus_route" yaml:"bus_route" validate:"required"`
}

type routeEntry struct {
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Coordinates [][]float64 `json:"coordinates" yaml:"coordinates" validate:"min=1,dive,len=2"`
	Stops       []stopEntry `json:"stops" yaml:"stops" validate:"unique=Name,dive"`
}

type stopEntry struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Lat      float64  `json:"lat" yaml:"lat" validate:"latitude"`
	Lon      float64  `json:"lon" yaml:"lon" validate:"longitude"`
	WaitTime *float64 `json:"wait_time" yaml:"wait_time" validate:"omitempty,gte=0"`
}

var validate = validator.New()

// FileRouteRepository loads the route from a JSON or YAML file on every call.
type FileRouteRepository struct {
	Path string
}

func NewFileRouteRepository(path string) *FileRouteRepository {
	return &FileRouteRepository{Path: path}
}

func (f *FileRouteRepository) LoadRoute(ctx context.Context) (domain.Route, error) {
	return LoadRouteFile(f.Path)
}

// LoadRouteFile reads a route document:
//
//	{"bus_route": {"name": "...", "coordinates": [[lat, lon], ...],
//	               "stops": [{"name": "...", "lat": 0, "lon": 0, "wait_time": 30}]}}
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
// A stop without wait_time does not dwell.
func LoadRouteFile(path string) (domain.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route file: read %q: %w", path, err)
	}

	route, err := ParseRoute(data, isYAML(path))
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route file %q: %w", path, err)
	}
	return route, nil
}

// ParseRoute decodes and validates a route document.
func ParseRoute(data []byte, asYAML bool) (domain.Route, error) {
	var doc routeDocument
	if asYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Route{}, fmt.Errorf("parse yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.Route{}, fmt.Errorf("parse json: %w", err)
		}
	}

	if err := validate.Struct(doc); err != nil {
		return domain.Route{}, fmt.Errorf("validate route: %w", err)
	}

	entry := doc.BusRoute
	route := domain.Route{
		Name:        entry.Name,
		Coordinates: make([]domain.Coordinates, 0, len(entry.Coordinates)),
		Stops:       make([]domain.Stop, 0, len(entry.Stops)),
	}

	for i, pair := range entry.Coordinates {
		c := domain.Coordinates{Lat: pair[0], Lon: pair[1]}
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return domain.Route{}, fmt.Errorf("validate route: coordinate #%d out of range: %s", i+1, c)
		}
		route.Coordinates = append(route.Coordinates, c)
	}

	for _, s := range entry.Stops {
		dwell := 0.0
		if s.WaitTime != nil {
			dwell = *s.WaitTime
		}
		route.Stops = append(route.Stops, domain.Stop{
			Name:         s.Name,
			Location:     domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
			DwellSeconds: dwell,
		})
	}

	return route, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
