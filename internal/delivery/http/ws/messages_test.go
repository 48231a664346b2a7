package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/pkg/utils"
)

func TestEncodeCircle(t *testing.T) {
	ring := utils.CirclePolygon(chicago, 5, 8)

	data, err := encodeCircle(ring)
	require.NoError(t, err)

	var g geom.T
	require.NoError(t, geojson.Unmarshal(data, &g))

	polygon, ok := g.(*geom.Polygon)
	require.True(t, ok, "expected polygon, got %T", g)
	require.Equal(t, 1, polygon.NumLinearRings())

	coords := polygon.LinearRing(0).Coords()
	require.Len(t, coords, 9)
	assert.Equal(t, ring[0].Lon, coords[0].X())
	assert.Equal(t, ring[0].Lat, coords[0].Y())
	assert.Equal(t, coords[0], coords[8])
}

func TestEncodeMarkers(t *testing.T) {
	results := []domain.ProximityResult{
		{Deal: dealNorth("f2", 2), DistanceMiles: 2},
		{Deal: domain.Deal{ID: "nowhere"}, DistanceMiles: 3},
		{Deal: dealNorth("f4", 4), DistanceMiles: 4},
	}

	data, err := encodeMarkers(results)
	require.NoError(t, err)

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "f2", first.ID)
	assert.Equal(t, "Deal f2", first.Properties["title"])
	assert.InDelta(t, 2.0, first.Properties["distance_miles"], 1e-9)

	point, ok := first.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.InDelta(t, chicago.Lon, point.X(), 1e-9)
}

func TestEncodeMarkers_Empty(t *testing.T) {
	data, err := encodeMarkers(nil)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "FeatureCollection", raw["type"])
}
