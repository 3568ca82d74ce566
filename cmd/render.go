package main

import (
	"context"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/browser"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimemap/internal/boundary"
	"github.com/sells-group/crimemap/internal/crime"
	"github.com/sells-group/crimemap/internal/monitoring"
	"github.com/sells-group/crimemap/internal/render"
)

var (
	renderOutputDir string
	renderOpen      bool
	renderXLSX      bool
)

// document is one rendered output file.
type document struct {
	name  string
	title string
	write func(io.Writer) error
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the crime maps and district chart",
	Long: "Loads the incident table, keeps located violent daytime incidents of the most recent year, " +
		"and writes marker, cluster, bubble, heat and choropleth maps plus a per-district bar chart.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if renderOutputDir != "" {
			cfg.Render.OutputDir = renderOutputDir
		}
		if cmd.Flags().Changed("xlsx") {
			cfg.Render.XLSX = renderXLSX
		}
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "render"))
		metrics := monitoring.NewMetrics(nil)
		done := metrics.StartRun()

		written, err := renderAll(ctx, log, metrics)
		done()
		if tf := cfg.Metrics.Textfile; tf != "" {
			if werr := metrics.WriteTextfile(tf); werr != nil {
				log.Warn("render: metrics textfile not written", zap.Error(werr))
			}
		}
		if err != nil {
			return err
		}

		log.Info("render complete",
			zap.String("output_dir", cfg.Render.OutputDir),
			zap.Int("documents", len(written)),
		)

		if renderOpen {
			for _, path := range written {
				if filepath.Ext(path) != ".html" {
					continue
				}
				if err := browser.OpenFile(path); err != nil {
					log.Warn("render: open in browser", zap.String("path", path), zap.Error(err))
				}
			}
		}
		return nil
	},
}

// renderAll runs the pipeline and writes every document. It returns the
// paths written.
func renderAll(ctx context.Context, log *zap.Logger, metrics *monitoring.Metrics) ([]string, error) {
	res, err := loadFiltered(ctx, log)
	if err != nil {
		return nil, err
	}
	metrics.ObserveFilter(res)

	lat, long, err := crime.Centroid(res.Records)
	if err != nil {
		return nil, eris.Wrapf(err, "render: no incidents left for year %d", res.Year)
	}

	counts, joined, err := joinDistricts(res.Records)
	if err != nil {
		return nil, err
	}

	docs := documents(res.Records, counts, joined, [2]float64{lat, long})

	written := make([]string, 0, len(docs)+1)
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return written, eris.Wrap(err, "render: interrupted")
		}
		path, err := render.WriteFile(cfg.Render.OutputDir, d.name, d.write)
		if err != nil {
			return written, err
		}
		metrics.DocumentWritten("html")
		log.Debug("wrote document", zap.String("path", path), zap.String("title", d.title))
		written = append(written, path)
	}

	if cfg.Render.XLSX {
		path := filepath.Join(cfg.Render.OutputDir, "districts.xlsx")
		if err := render.DistrictTable(path, joined); err != nil {
			return written, err
		}
		metrics.DocumentWritten("xlsx")
		written = append(written, path)
	}
	return written, nil
}

// documents lists the output files in the order they are written.
func documents(records []crime.Record, counts []crime.AreaCount, joined []crime.Joined[boundary.Boundary], center [2]float64) []document {
	weekend, weekday := crime.SplitWeekend(records)
	opts := func(title, tiles string) render.MapOptions {
		if tiles == "" {
			tiles = cfg.Render.Tiles
		}
		return render.MapOptions{Title: title, Center: center, Zoom: cfg.Render.Zoom, Tiles: tiles}
	}

	return []document{
		{
			name:  "m_1.html",
			title: "Violent crimes",
			write: func(w io.Writer) error {
				return render.Markers(w, opts("Violent crimes", ""), records)
			},
		},
		{
			name:  "m_2.html",
			title: "Violent crimes, clustered",
			write: func(w io.Writer) error {
				return render.Cluster(w, opts("Violent crimes, clustered", "cartodbpositron"), records)
			},
		},
		{
			name:  "m_3.html",
			title: "Violent crimes by time of day",
			write: func(w io.Writer) error {
				return render.Bubbles(w, opts("Violent crimes by time of day", ""), records)
			},
		},
		{
			name:  "m_5.html",
			title: "Weekend violent crimes",
			write: func(w io.Writer) error {
				return render.Heat(w, opts("Weekend violent crimes", ""), weekend, render.DefaultHeatRadius)
			},
		},
		{
			name:  "m_6.html",
			title: "Weekday violent crimes",
			write: func(w io.Writer) error {
				return render.Heat(w, opts("Weekday violent crimes", ""), weekday, render.DefaultHeatRadius)
			},
		},
		{
			name:  "m_7.html",
			title: render.DefaultLegend,
			write: func(w io.Writer) error {
				return render.Choropleth(w, opts(render.DefaultLegend, "cartodbpositron"), joined, render.DefaultLegend)
			},
		},
		{
			name:  "p_1.html",
			title: "Violent crimes per district",
			write: func(w io.Writer) error {
				return render.BarChart(w, counts, "Violent crimes per district")
			},
		},
	}
}

func init() {
	renderCmd.Flags().StringVar(&renderOutputDir, "output", "", "output directory (overrides render.output_dir)")
	renderCmd.Flags().BoolVar(&renderOpen, "open", false, "open the generated maps in the default browser")
	renderCmd.Flags().BoolVar(&renderXLSX, "xlsx", false, "also write districts.xlsx (overrides render.xlsx)")
	rootCmd.AddCommand(renderCmd)
}
