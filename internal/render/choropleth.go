package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimemap/internal/boundary"
	"github.com/sells-group/crimemap/internal/crime"
)

// PropFill is the feature property carrying a district's shade.
const PropFill = "fill"

// DefaultLegend is the choropleth legend caption.
const DefaultLegend = "Number of Violent Crimes in Boston"

// YlGnBu is the six-class yellow-green-blue sequential palette.
var YlGnBu = []string{"#ffffcc", "#c7e9b4", "#7fcdbb", "#41b6c4", "#2c7fb8", "#253494"}

// Bin is one legend class: counts in [Low, High] get Color.
type Bin struct {
	Low   float64
	High  float64
	Color string
}

// Label formats the bin range for the legend.
func (b Bin) Label() string {
	return fmt.Sprintf("%.0f - %.0f", b.Low, b.High)
}

// LinearBins splits [min, max] of counts into len(palette) equal-width classes.
func LinearBins(counts []int, palette []string) []Bin {
	if len(counts) == 0 || len(palette) == 0 {
		return nil
	}
	lo, hi := counts[0], counts[0]
	for _, c := range counts[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	step := float64(hi-lo) / float64(len(palette))
	bins := make([]Bin, len(palette))
	for i, color := range palette {
		bins[i] = Bin{
			Low:   float64(lo) + step*float64(i),
			High:  float64(lo) + step*float64(i+1),
			Color: color,
		}
	}
	bins[len(bins)-1].High = float64(hi)
	return bins
}

// ColorFor returns the color of the class containing n. Values outside the
// range clamp to the first or last class.
func ColorFor(bins []Bin, n int) string {
	if len(bins) == 0 {
		return ""
	}
	v := float64(n)
	for _, b := range bins[:len(bins)-1] {
		if v < b.High {
			return b.Color
		}
	}
	return bins[len(bins)-1].Color
}

var choroplethTmpl = mustLayer("choropleth", `{{define "style"}}
.legend { background: white; padding: 6px 10px; font: 12px sans-serif; box-shadow: 0 0 4px rgba(0,0,0,0.3); }
.legend i { width: 18px; height: 12px; float: left; margin-right: 6px; opacity: 0.7; }
{{end}}{{define "layer"}}
var districts = {{.Layer.Districts}};
L.geoJSON(districts, {
  style: function (f) {
    return {fillColor: f.properties.fill, fillOpacity: 0.7, color: "#333", weight: 1, opacity: 0.2};
  },
  onEachFeature: function (f, l) {
    l.bindTooltip(f.id + ": " + f.properties.incidents);
  }
}).addTo(map);
var legend = L.control({position: "topright"});
legend.onAdd = function () {
  var div = L.DomUtil.create("div", "legend");
  div.innerHTML = {{.Layer.Legend}};
  return div;
};
legend.addTo(map);
{{end}}`)

type choroplethLayer struct {
	Districts any
	Legend    string
}

// legendHTML builds the legend markup. It is inlined as a JS string.
func legendHTML(caption string, bins []Bin) string {
	var sb strings.Builder
	sb.WriteString("<strong>" + template.HTMLEscapeString(caption) + "</strong><br>")
	for _, b := range bins {
		fmt.Fprintf(&sb, `<i style="background:%s"></i>%s<br>`, b.Color, template.HTMLEscapeString(b.Label()))
	}
	return sb.String()
}

// Choropleth writes a map shading each district by its incident count.
func Choropleth(w io.Writer, opts MapOptions, joined []crime.Joined[boundary.Boundary], legend string) error {
	if len(joined) == 0 {
		return eris.Wrap(crime.ErrNoData, "render: choropleth")
	}
	if legend == "" {
		legend = DefaultLegend
	}

	counts := make([]int, len(joined))
	for i, j := range joined {
		counts[i] = j.Count
	}
	bins := LinearBins(counts, YlGnBu)

	fc := boundary.FeatureCollection(joined)
	for i, f := range fc.Features {
		f.Properties[PropFill] = ColorFor(bins, joined[i].Count)
	}

	layer := choroplethLayer{
		Districts: fc,
		Legend:    legendHTML(legend, bins),
	}
	return choroplethTmpl.ExecuteTemplate(w, "map", newMapPage(opts, layer))
}
