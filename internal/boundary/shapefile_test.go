package boundary

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type district struct {
	id, name string
	shape    shp.Shape
}

func square(x, y float64) *shp.Polygon {
	return (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{{
		{X: x, Y: y},
		{X: x, Y: y + 0.01},
		{X: x + 0.01, Y: y + 0.01},
		{X: x + 0.01, Y: y},
		{X: x, Y: y},
	}}))
}

// writeDistricts writes a POLYGON shapefile with ID and DISTRICT attributes.
func writeDistricts(t *testing.T, districts []district) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Police_Districts.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("ID", 8),
		shp.StringField("DISTRICT", 40),
	})
	for i, d := range districts {
		w.Write(d.shape)
		w.WriteAttribute(i, 0, d.id)
		w.WriteAttribute(i, 1, d.name)
	}
	w.Close()
	return path
}

func TestLoadShapefile(t *testing.T) {
	path := writeDistricts(t, []district{
		{id: "A1", name: "Downtown", shape: square(-71.06, 42.35)},
		{id: "D4", name: "South End", shape: square(-71.08, 42.34)},
	})

	boundaries, err := LoadShapefile(path, Options{})
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	assert.Equal(t, "A1", boundaries[0].ID)
	assert.Equal(t, "A1", boundaries[0].Key())
	assert.Equal(t, "Downtown", boundaries[0].Name)
	require.NotNil(t, boundaries[0].Geometry)
	assert.Equal(t, 1, boundaries[0].Geometry.NumPolygons())
	assert.Equal(t, 4326, boundaries[0].Geometry.SRID())
	assert.Equal(t, "South End", boundaries[1].Name)
}

func TestLoadShapefile_MultiPart(t *testing.T) {
	two := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
		{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5}},
	}))
	path := writeDistricts(t, []district{{id: "C6", name: "South Boston", shape: two}})

	boundaries, err := LoadShapefile(path, Options{})
	require.NoError(t, err)
	require.Len(t, boundaries, 1)
	assert.Equal(t, 2, boundaries[0].Geometry.NumPolygons())
}

func TestLoadShapefile_SkipsRecordsWithoutKey(t *testing.T) {
	path := writeDistricts(t, []district{
		{id: "", name: "Nowhere", shape: square(0, 0)},
		{id: "B2", name: "Roxbury", shape: square(1, 1)},
	})

	boundaries, err := LoadShapefile(path, Options{})
	require.NoError(t, err)
	require.Len(t, boundaries, 1)
	assert.Equal(t, "B2", boundaries[0].ID)
}

func TestLoadShapefile_CustomFields(t *testing.T) {
	path := writeDistricts(t, []district{{id: "E13", name: "Jamaica Plain", shape: square(0, 0)}})

	boundaries, err := LoadShapefile(path, Options{KeyField: "district", NameField: "id"})
	require.NoError(t, err)
	require.Len(t, boundaries, 1)
	assert.Equal(t, "Jamaica Plain", boundaries[0].ID)
	assert.Equal(t, "E13", boundaries[0].Name)
}

func TestLoadShapefile_MissingKeyField(t *testing.T) {
	path := writeDistricts(t, []district{{id: "A1", name: "Downtown", shape: square(0, 0)}})

	_, err := LoadShapefile(path, Options{KeyField: "DIST_CODE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIST_CODE")
}

func TestLoadShapefile_MissingFile(t *testing.T) {
	_, err := LoadShapefile(filepath.Join(t.TempDir(), "none.shp"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boundary: open shapefile")
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}

func TestLoadShapefile_Holes(t *testing.T) {
	// Clockwise outer ring, counter-clockwise hole, then a second outer ring.
	shape := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0}},
		{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 1}},
		{{X: 10, Y: 10}, {X: 10, Y: 11}, {X: 11, Y: 11}, {X: 11, Y: 10}, {X: 10, Y: 10}},
	}))
	path := writeDistricts(t, []district{{id: "D14", name: "Brighton", shape: shape}})

	boundaries, err := LoadShapefile(path, Options{})
	require.NoError(t, err)
	require.Len(t, boundaries, 1)

	mp := boundaries[0].Geometry
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
	assert.InDelta(t, 12, mp.Polygon(0).Area(), 1e-9)
}

func TestPolygonToMultiPolygon_LeadingHole(t *testing.T) {
	ccw := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}},
	}))
	mp := polygonToMultiPolygon(ccw)
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestRingArea(t *testing.T) {
	cw := []float64{0, 0, 0, 2, 2, 2, 2, 0, 0, 0}
	ccw := []float64{0, 0, 2, 0, 2, 2, 0, 2, 0, 0}
	assert.InDelta(t, -4, ringArea(cw), 1e-9)
	assert.InDelta(t, 4, ringArea(ccw), 1e-9)
}
