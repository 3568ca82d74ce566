// Package boundary loads police district polygons and converts them into the
// GeoJSON interchange structure used for choropleth shading.
package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Default attribute names in the police districts shapefile.
const (
	DefaultKeyField  = "ID"
	DefaultNameField = "DISTRICT"
)

// Boundary is the polygon of one district.
type Boundary struct {
	ID       string
	Name     string
	Geometry *geom.MultiPolygon
}

// Key returns the district code the boundary is joined on.
func (b Boundary) Key() string { return b.ID }

// Options selects the shapefile attributes holding the district code and name.
type Options struct {
	KeyField  string
	NameField string
}

// LoadShapefile reads district boundaries from an ESRI shapefile. Records
// without a polygon or without a key are skipped.
func LoadShapefile(shpPath string, opts Options) ([]Boundary, error) {
	if opts.KeyField == "" {
		opts.KeyField = DefaultKeyField
	}
	if opts.NameField == "" {
		opts.NameField = DefaultNameField
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	keyIdx, ok := fieldIdx[strings.ToLower(opts.KeyField)]
	if !ok {
		return nil, eris.Errorf("boundary: shapefile %s has no %q field", shpPath, opts.KeyField)
	}
	nameIdx, hasName := fieldIdx[strings.ToLower(opts.NameField)]

	var (
		boundaries []Boundary
		skipped    int
	)
	for reader.Next() {
		n, shape := reader.Shape()

		key := attribute(reader, keyIdx)
		poly, isPoly := shape.(*shp.Polygon)
		if key == "" || !isPoly {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		b := Boundary{ID: key, Geometry: mp}
		if hasName {
			b.Name = attribute(reader, nameIdx)
		}
		if b.Name == "" {
			b.Name = key
		}
		zap.L().Debug("boundary: loaded district",
			zap.Int("record", n),
			zap.String("id", b.ID),
			zap.Int("polygons", mp.NumPolygons()),
		)
		boundaries = append(boundaries, b)
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return boundaries, nil
}

func attribute(r *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(r.Attribute(idx), "\x00"))
}

// polygonToMultiPolygon converts a shapefile polygon into a go-geom
// multipolygon. Shapefile outer rings run clockwise and holes counter-
// clockwise; each hole joins the outer ring before it. A hole with no
// preceding outer ring is kept as a polygon of its own. WGS84 coordinates
// are assumed.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var (
		polys   []*geom.Polygon
		current *geom.Polygon
	)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if start < 0 || end > int32(len(p.Points)) || end-start < 4 {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i))
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)

		if ringArea(flat) > 0 && current != nil {
			if err := current.Push(ring); err != nil {
				zap.L().Debug("boundary: skipping malformed hole", zap.Int32("part", i), zap.Error(err))
			}
			continue
		}

		current = geom.NewPolygon(geom.XY)
		if err := current.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			current = nil
			continue
		}
		polys = append(polys, current)
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i, poly := range polys {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon", zap.Int("polygon", i), zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// ringArea returns the signed shoelace area of a closed XY ring: positive
// for counter-clockwise rings.
func ringArea(flat []float64) float64 {
	var sum float64
	for i := 0; i+3 < len(flat); i += 2 {
		sum += flat[i]*flat[i+3] - flat[i+2]*flat[i+1]
	}
	return sum / 2
}
