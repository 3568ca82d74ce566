package render

import (
	"io"

	"github.com/sells-group/crimemap/internal/crime"
)

// Bubble colors split incidents before and after the early afternoon.
const (
	BubbleEarly       = "steelblue"
	BubbleLate        = "indianred"
	BubbleSplitHour   = 14
	BubbleRadius      = 80 // meters
	DefaultHeatRadius = 10
)

type marker struct {
	Lat     float64 `json:"lat"`
	Long    float64 `json:"lng"`
	Tooltip string  `json:"tooltip,omitempty"`
}

type bubble struct {
	Lat   float64 `json:"lat"`
	Long  float64 `json:"lng"`
	Color string  `json:"color"`
}

type heatLayer struct {
	Points [][2]float64 `json:"points"`
	Radius int          `json:"radius"`
}

// markers converts located records into map markers. Records without
// coordinates are skipped.
func markers(records []crime.Record) []marker {
	out := make([]marker, 0, len(records))
	for _, r := range records {
		if r.Lat == nil || r.Long == nil {
			continue
		}
		lat, long := r.Point()
		tip := r.OffenseGroup
		if r.OccurredOn != "" {
			tip += " (" + r.OccurredOn + ")"
		}
		out = append(out, marker{Lat: lat, Long: long, Tooltip: tip})
	}
	return out
}

// BubbleColor returns the fill color of an incident bubble for the given hour.
func BubbleColor(hour int) string {
	if hour <= BubbleSplitHour {
		return BubbleEarly
	}
	return BubbleLate
}

var markersTmpl = mustLayer("markers", `{{define "layer"}}
var markers = {{.Layer}};
markers.forEach(function (m) {
  var mk = L.marker([m.lat, m.lng]).addTo(map);
  if (m.tooltip) { mk.bindTooltip(m.tooltip); }
});
{{end}}`)

// Markers writes a map with one marker per incident.
func Markers(w io.Writer, opts MapOptions, records []crime.Record) error {
	return markersTmpl.ExecuteTemplate(w, "map", newMapPage(opts, markers(records)))
}

var clusterTmpl = mustLayer("cluster", `{{define "head"}}
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
{{end}}{{define "layer"}}
var cluster = L.markerClusterGroup();
{{.Layer}}.forEach(function (m) {
  var mk = L.marker([m.lat, m.lng]);
  if (m.tooltip) { mk.bindTooltip(m.tooltip); }
  cluster.addLayer(mk);
});
map.addLayer(cluster);
{{end}}`)

// Cluster writes a map whose incident markers are aggregated into clusters.
func Cluster(w io.Writer, opts MapOptions, records []crime.Record) error {
	return clusterTmpl.ExecuteTemplate(w, "map", newMapPage(opts, markers(records)))
}

type bubbleLayer struct {
	Bubbles []bubble `json:"bubbles"`
	Radius  int      `json:"radius"`
}

var bubblesTmpl = mustLayer("bubbles", `{{define "layer"}}
var layer = {{.Layer}};
layer.bubbles.forEach(function (b) {
  L.circle([b.lat, b.lng], {radius: layer.radius, stroke: false, fill: true, fillColor: b.color, fillOpacity: 0.5}).addTo(map);
});
{{end}}`)

// Bubbles writes a bubble map colored by time of day.
func Bubbles(w io.Writer, opts MapOptions, records []crime.Record) error {
	layer := bubbleLayer{Bubbles: make([]bubble, 0, len(records)), Radius: BubbleRadius}
	for _, r := range records {
		if r.Lat == nil || r.Long == nil {
			continue
		}
		lat, long := r.Point()
		layer.Bubbles = append(layer.Bubbles, bubble{Lat: lat, Long: long, Color: BubbleColor(r.Hour)})
	}
	return bubblesTmpl.ExecuteTemplate(w, "map", newMapPage(opts, layer))
}

var heatTmpl = mustLayer("heat", `{{define "head"}}
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
{{end}}{{define "layer"}}
var heat = {{.Layer}};
L.heatLayer(heat.points, {radius: heat.radius}).addTo(map);
{{end}}`)

// Heat writes a heat map of incident locations. radius <= 0 uses DefaultHeatRadius.
func Heat(w io.Writer, opts MapOptions, records []crime.Record, radius int) error {
	if radius <= 0 {
		radius = DefaultHeatRadius
	}
	layer := heatLayer{Points: make([][2]float64, 0, len(records)), Radius: radius}
	for _, r := range records {
		if r.Lat == nil || r.Long == nil {
			continue
		}
		lat, long := r.Point()
		layer.Points = append(layer.Points, [2]float64{lat, long})
	}
	return heatTmpl.ExecuteTemplate(w, "map", newMapPage(opts, layer))
}
