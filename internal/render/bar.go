package render

import (
	"html/template"
	"io"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimemap/internal/crime"
)

// Bar chart layout defaults.
const (
	BarWidth    = 1024
	BarHeight   = 512
	BarFontSize = 20
)

type barChart struct {
	Title     string
	Generated string
	Districts []string
	Counts    []int
	Width     int
	Height    int
	FontSize  int
}

var barTmpl = template.Must(template.New("bar").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="crimemap">
<meta name="generated" content="{{.Generated}}">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
</head>
<body>
<div id="chart"></div>
<script>
Plotly.newPlot("chart", [{
  type: "bar",
  orientation: "h",
  x: {{.Counts}},
  y: {{.Districts}}
}], {
  xaxis: {title: {text: {{.Title}}}},
  width: {{.Width}},
  height: {{.Height}},
  font: {size: {{.FontSize}}},
  yaxis: {type: "category"}
});
</script>
</body>
</html>
`))

// BarChart writes a horizontal bar chart of incidents per district, sorted
// ascending so the largest bar is drawn on top. The caption labels the
// x axis.
func BarChart(w io.Writer, counts []crime.AreaCount, title string) error {
	if len(counts) == 0 {
		return eris.Wrap(crime.ErrNoData, "render: bar chart")
	}
	sorted := make([]crime.AreaCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count < sorted[j].Count })

	chart := barChart{
		Title:     title,
		Generated: generatedAt(),
		Districts: make([]string, len(sorted)),
		Counts:    make([]int, len(sorted)),
		Width:     BarWidth,
		Height:    BarHeight,
		FontSize:  BarFontSize,
	}
	for i, c := range sorted {
		chart.Districts[i] = c.District
		chart.Counts[i] = c.Count
	}
	return barTmpl.Execute(w, chart)
}
