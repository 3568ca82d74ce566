// Package render writes self-contained interactive HTML documents (Leaflet
// maps and a Plotly bar chart) and an optional XLSX table from filtered
// incident data. Every document inlines its data; nothing is shared between
// documents.
package render

import (
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// clock stamps generated documents; tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// DefaultZoom is the initial zoom level of every map.
const DefaultZoom = 14

// MapOptions configures the base map of a document.
type MapOptions struct {
	Title  string
	Center [2]float64 // lat, long
	Zoom   int
	Tiles  string // tile style name, e.g. "openstreetmap" or "cartodbpositron"
}

// Tile is a basemap tile layer.
type Tile struct {
	URL         string
	Attribution string
}

const (
	osmAttribution   = `Data by &copy; <a href="https://openstreetmap.org">OpenStreetMap</a> contributors`
	cartoAttribution = osmAttribution + `, &copy; <a href="https://carto.com/attributions">CARTO</a>`
)

var tileStyles = map[string]Tile{
	"openstreetmap": {
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution,
	},
	"cartodbpositron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
	},
	"cartodbdark_matter": {
		URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
	},
}

// TileFor resolves a tile style name. Unknown names fall back to
// openstreetmap; ok reports whether the name was known.
func TileFor(name string) (tile Tile, ok bool) {
	tile, ok = tileStyles[name]
	if !ok {
		tile = tileStyles["openstreetmap"]
	}
	return tile, ok
}

// mapPage is the data handed to the map templates.
type mapPage struct {
	Title     string
	Center    [2]float64
	Zoom      int
	Tile      Tile
	Generated string
	Layer     any
}

func newMapPage(opts MapOptions, layer any) mapPage {
	tile, ok := TileFor(opts.Tiles)
	if !ok {
		zap.L().Warn("render: unknown tile style, using openstreetmap", zap.String("tiles", opts.Tiles))
	}
	zoom := opts.Zoom
	if zoom == 0 {
		zoom = DefaultZoom
	}
	return mapPage{
		Title:     opts.Title,
		Center:    opts.Center,
		Zoom:      zoom,
		Tile:      tile,
		Generated: generatedAt(),
		Layer:     layer,
	}
}

func generatedAt() string {
	return clock.Now().UTC().Format(time.RFC3339)
}

// WriteFile creates dir/name and hands it to fn. It returns the file path.
func WriteFile(dir, name string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "render: create output dir %s", dir)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "render: create %s", path)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return "", eris.Wrapf(err, "render: write %s", name)
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrapf(err, "render: close %s", path)
	}
	return path, nil
}

func mustLayer(name, layer string) *template.Template {
	t := template.Must(baseMap.Clone())
	return template.Must(t.New(name).Parse(layer))
}

var baseMap = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="crimemap">
<meta name="generated" content="{{.Generated}}">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
{{block "head" .}}{{end}}
<style>
html, body { width: 100%; height: 100%; margin: 0; padding: 0; }
#map { position: absolute; top: 0; bottom: 0; right: 0; left: 0; }
{{block "style" .}}{{end}}
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map", {center: {{.Center}}, zoom: {{.Zoom}}});
L.tileLayer({{.Tile.URL}}, {attribution: {{.Tile.Attribution}}, maxZoom: 19}).addTo(map);
{{block "layer" .}}{{end}}
</script>
</body>
</html>
`))
