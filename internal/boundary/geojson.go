package boundary

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/crimemap/internal/crime"
)

// Feature property names written for each district.
const (
	PropDistrict  = "district"
	PropName      = "name"
	PropIncidents = "incidents"
)

// FeatureCollection converts joined districts into a GeoJSON feature
// collection. Each feature's id is the district code, so a choropleth can key
// on feature.id.
func FeatureCollection(joined []crime.Joined[Boundary]) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(joined)),
	}
	for _, j := range joined {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       j.Boundary.ID,
			Geometry: j.Boundary.Geometry,
			Properties: map[string]any{
				PropDistrict:  j.Boundary.ID,
				PropName:      j.Boundary.Name,
				PropIncidents: j.Count,
			},
		})
	}
	return fc
}
