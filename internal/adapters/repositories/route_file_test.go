package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routeJSON = `{
	"bus_route": {
		"name": "Campus Loop",
		"coordinates": [[31.5204, 74.3587], [31.5221, 74.3591], [31.5250, 74.3600]],
		"stops": [
			{"name": "Main Gate", "lat": 31.5204, "lon": 74.3587, "wait_time": 30},
			{"name": "Library", "lat": 31.5250, "lon": 74.3600}
		]
	}
}`

const routeYAML = `
bus_route:
  name: Campus Loop
  coordinates:
    - [31.5204, 74.3587]
    - [31.5250, 74.3600]
  stops:
    - name: Main Gate
      lat: 31.5204
      lon: 74.3587
      wait_time: 45
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRouteFileJSON(t *testing.T) {
	route, err := LoadRouteFile(writeFile(t, "routes.json", routeJSON))
	require.NoError(t, err)

	assert.Equal(t, "Campus Loop", route.Name)
	require.Len(t, route.Coordinates, 3)
	assert.Equal(t, 31.5221, route.Coordinates[1].Lat)
	assert.Equal(t, 74.3591, route.Coordinates[1].Lon)

	require.Len(t, route.Stops, 2)
	assert.Equal(t, "Main Gate", route.Stops[0].Name)
	assert.Equal(t, 30.0, route.Stops[0].DwellSeconds)
	assert.Equal(t, 0.0, route.Stops[1].DwellSeconds, "missing wait_time means no dwell")
}

func TestLoadRouteFileYAML(t *testing.T) {
	route, err := LoadRouteFile(writeFile(t, "routes.yaml", routeYAML))
	require.NoError(t, err)

	assert.Equal(t, "Campus Loop", route.Name)
	assert.Len(t, route.Coordinates, 2)
	require.Len(t, route.Stops, 1)
	assert.Equal(t, 45.0, route.Stops[0].DwellSeconds)
}

func TestFileRouteRepository(t *testing.T) {
	repo := NewFileRouteRepository(writeFile(t, "routes.json", routeJSON))

	route, err := repo.LoadRoute(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Campus Loop", route.Name)
}

func TestLoadRouteFileMissing(t *testing.T) {
	_, err := LoadRouteFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRouteRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no bus_route", `{"route": {}}`},
		{"no name", `{"bus_route": {"coordinates": [[1, 2]]}}`},
		{"no coordinates", `{"bus_route": {"name": "x", "coordinates": []}}`},
		{"short pair", `{"bus_route": {"name": "x", "coordinates": [[1]]}}`},
		{"out of range", `{"bus_route": {"name": "x", "coordinates": [[91, 0]]}}`},
		{"unnamed stop", `{"bus_route": {"name": "x", "coordinates": [[1, 2]], "stops": [{"lat": 1, "lon": 2}]}}`},
		{"duplicate stop", `{"bus_route": {"name": "x", "coordinates": [[1, 2]], "stops": [{"name": "a", "lat": 1, "lon": 2}, {"name": "a", "lat": 1, "lon": 2}]}}`},
		{"negative wait", `{"bus_route": {"name": "x", "coordinates": [[1, 2]], "stops": [{"name": "a", "lat": 1, "lon": 2, "wait_time": -5}]}}`},
		{"bad stop latitude", `{"bus_route": {"name": "x", "coordinates": [[1, 2]], "stops": [{"name": "a", "lat": 100, "lon": 2}]}}`},
		{"not json", `bus_route: {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoute([]byte(tt.doc), false)
			assert.Error(t, err)
		})
	}
}
