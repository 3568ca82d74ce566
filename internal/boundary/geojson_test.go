package boundary

import (
	"encoding/json"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crimemap/internal/crime"
)

func TestFeatureCollection(t *testing.T) {
	joined := []crime.Joined[Boundary]{
		{Boundary: Boundary{ID: "D4", Name: "South End", Geometry: polygonToMultiPolygon(square(-71.08, 42.34))}, Count: 12},
		{Boundary: Boundary{ID: "A1", Name: "Downtown", Geometry: polygonToMultiPolygon(square(-71.06, 42.35))}, Count: 7},
	}

	fc := FeatureCollection(joined)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "D4", fc.Features[0].ID)
	assert.Equal(t, 12, fc.Features[0].Properties[PropIncidents])

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates [][][][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 2)
	assert.Equal(t, "A1", decoded.Features[1].ID)
	assert.Equal(t, "MultiPolygon", decoded.Features[1].Geometry.Type)
	assert.Equal(t, []float64{-71.06, 42.35}, decoded.Features[1].Geometry.Coordinates[0][0][0])
	assert.Equal(t, "Downtown", decoded.Features[1].Properties[PropName])
	assert.InDelta(t, 7, decoded.Features[1].Properties[PropIncidents], 0)
}

func TestPolygonToMultiPolygon_RingPerPart(t *testing.T) {
	p := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points:   []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}},
	}
	mp := polygonToMultiPolygon(p)
	require.NotNil(t, mp)
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1, 0, 0}, mp.FlatCoords())
}
