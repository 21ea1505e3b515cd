// Package chart draws observed and fitted case series on a log-scale chart.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"GrowthWatch/internal/calculator"
	"GrowthWatch/internal/model"
)

const logPrefix = "chart"

// SupportedFormats lists the image extensions the renderer can write.
var SupportedFormats = []string{".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".eps"}

// Options configures a Renderer.
type Options struct {
	Output  string // empty writes a temporary PNG
	Display bool   // open the image in the desktop viewer
	Width   vg.Length
	Height  vg.Length
	Title   string
}

// Renderer writes the chart image and optionally shows it.
type Renderer struct {
	opts Options
	open func(path string) error
}

// NewRenderer creates a Renderer. Zero sizes default to 10x6 inches.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 10 * vg.Inch
	}
	if opts.Height <= 0 {
		opts.Height = 6 * vg.Inch
	}
	return &Renderer{opts: opts, open: browser.OpenFile}
}

// Render draws the chart, saves it, and opens it when Display is set.
// It returns the path of the written image.
func (r *Renderer) Render(ds *model.Dataset, projections []model.Projection) (string, error) {
	p, err := r.Plot(ds, projections)
	if err != nil {
		return "", err
	}

	path := r.opts.Output
	if path == "" {
		f, err := os.CreateTemp("", "growthwatch-*.png")
		if err != nil {
			return "", fmt.Errorf("create chart file: %w", err)
		}
		path = f.Name()
		f.Close()
	}
	if err := p.Save(r.opts.Width, r.opts.Height, path); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}
	log.WithFields(log.Fields{"prefix": logPrefix, "path": path}).Info("chart written")

	if r.opts.Display {
		if err := r.open(path); err != nil {
			return path, fmt.Errorf("open chart viewer: %w", err)
		}
	}
	return path, nil
}

// Plot builds the chart: dotted observed series with markers, solid fitted
// curves, a log y-axis, rotated date ticks, and a legend of fit labels only.
func (r *Renderer) Plot(ds *model.Dataset, projections []model.Projection) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.Y.Label.Text = "y"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for _, proj := range projections {
		c, err := ParseColor(proj.Style.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", proj.Country, err)
		}
		glyph, err := ParseMarker(proj.Style.Marker)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", proj.Country, err)
		}

		observed := drawable(calculator.ToFloats(proj.Observed))
		if len(observed) > 0 {
			line, err := plotter.NewLine(observed)
			if err != nil {
				return nil, fmt.Errorf("%s observed line: %w", proj.Country, err)
			}
			line.LineStyle.Color = c
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}

			points, err := plotter.NewScatter(observed)
			if err != nil {
				return nil, fmt.Errorf("%s observed points: %w", proj.Country, err)
			}
			points.GlyphStyle.Color = c
			points.GlyphStyle.Shape = glyph
			points.GlyphStyle.Radius = vg.Points(3)

			p.Add(line, points)
		}

		if !proj.HasFit() {
			continue
		}
		fitted := drawable(proj.Fit.Projection)
		if len(fitted) == 0 {
			continue
		}
		line, err := plotter.NewLine(fitted)
		if err != nil {
			return nil, fmt.Errorf("%s fit line: %w", proj.Country, err)
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(proj.Fit.Label(), line)
	}

	ticks := make([]plot.Tick, ds.Axis.Len())
	for i, label := range ds.Axis.Labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	fixRanges(p, ds.Axis.Len())
	return p, nil
}

// drawable keeps the points a log axis can show.
func drawable(values []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: v})
	}
	return xys
}

// fixRanges keeps the axes valid when there is little or nothing to draw;
// a log scale rejects non-positive bounds.
func fixRanges(p *plot.Plot, days int) {
	if math.IsInf(p.Y.Min, 0) || math.IsInf(p.Y.Max, 0) || p.Y.Min <= 0 || p.Y.Min > p.Y.Max {
		p.Y.Min, p.Y.Max = 1, 10
	} else if p.Y.Min == p.Y.Max {
		p.Y.Min, p.Y.Max = p.Y.Min/2, p.Y.Max*2
	}
	if days > 0 {
		p.X.Min = math.Min(p.X.Min, 0)
		p.X.Max = math.Max(p.X.Max, float64(days-1))
	}
	if math.IsInf(p.X.Min, 0) || math.IsInf(p.X.Max, 0) || p.X.Min >= p.X.Max {
		p.X.Min, p.X.Max = 0, math.Max(1, float64(days-1))
	}
}

// SupportedOutput reports whether path has an extension the renderer writes.
func SupportedOutput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range SupportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}
