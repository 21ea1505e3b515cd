package chart

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GrowthWatch/internal/model"
)

func scenario() (*model.Dataset, []model.Projection) {
	ds := &model.Dataset{
		Axis:   model.TimeAxis{Labels: []string{"1/1/20", "1/2/20", "1/3/20"}},
		Series: model.CountrySeries{"US": {10, 20, 40}, "Zero": {0, 0, 0}},
	}
	projections := []model.Projection{
		{
			Country:  "US",
			Style:    model.CountryStyle{Country: "US", Color: "r", Marker: "x"},
			Observed: []int64{10, 20, 40},
			Fit: &model.FitResult{
				Country: "US", K: math.Ln2, B: math.Log(10), DoublingTime: 1,
				Projection: []float64{10, 20, 40},
			},
		},
		{
			Country:  "Zero",
			Style:    model.CountryStyle{Country: "Zero", Color: "lime", Marker: "o"},
			Observed: []int64{0, 0, 0},
			Err:      errors.New("degenerate"),
		},
	}
	return ds, projections
}

func TestRender_SVGContainsLabels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.svg")
	r := NewRenderer(Options{Output: out, Title: "cases"})

	ds, projections := scenario()
	path, err := r.Render(ds, projections)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, "US k=0.69 b=2.30 d=1.00")
	assert.Contains(t, svg, "1/2/20")
	assert.NotContains(t, svg, "Zero k=", "countries without a fit get no legend label")
}

func TestRender_TempFileAndDisplay(t *testing.T) {
	r := NewRenderer(Options{Display: true})
	var opened string
	r.open = func(path string) error {
		opened = path
		return nil
	}

	ds, projections := scenario()
	path, err := r.Render(ds, projections)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, path, opened)
	assert.True(t, strings.HasSuffix(path, ".png"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_ViewerFailure(t *testing.T) {
	r := NewRenderer(Options{Output: filepath.Join(t.TempDir(), "c.png"), Display: true})
	r.open = func(string) error { return errors.New("no display") }

	ds, projections := scenario()
	path, err := r.Render(ds, projections)
	assert.Error(t, err)
	assert.NotEmpty(t, path, "the image is still written")
}

func TestPlot_NothingPositiveToDraw(t *testing.T) {
	ds := &model.Dataset{Axis: model.TimeAxis{Labels: []string{"1/1/20"}}}
	projections := []model.Projection{{
		Country:  "Zero",
		Style:    model.CountryStyle{Country: "Zero", Color: "k", Marker: "x"},
		Observed: []int64{0},
		Err:      errors.New("degenerate"),
	}}

	out := filepath.Join(t.TempDir(), "empty.png")
	_, err := NewRenderer(Options{Output: out}).Render(ds, projections)
	assert.NoError(t, err)
}

func TestPlot_SingleValueAxis(t *testing.T) {
	ds := &model.Dataset{Axis: model.TimeAxis{Labels: []string{"1/1/20", "1/2/20"}}}
	projections := []model.Projection{{
		Country:  "Flat",
		Style:    model.CountryStyle{Country: "Flat", Color: "b", Marker: "s"},
		Observed: []int64{1, 1},
	}}

	p, err := NewRenderer(Options{}).Plot(ds, projections)
	require.NoError(t, err)
	assert.Greater(t, p.Y.Min, 0.0)
	assert.Less(t, p.Y.Min, p.Y.Max)
}

func TestPlot_UnknownStyle(t *testing.T) {
	ds, projections := scenario()
	projections[0].Style.Color = "not-a-color"
	_, err := NewRenderer(Options{}).Plot(ds, projections)
	assert.ErrorContains(t, err, "unknown color")

	ds, projections = scenario()
	projections[1].Style.Marker = "?"
	_, err = NewRenderer(Options{}).Plot(ds, projections)
	assert.ErrorContains(t, err, "unknown marker")
}

func TestParseColor(t *testing.T) {
	for _, name := range []string{"r", "g", "b", "k", "m", "y", "lime", "Orange", " navy "} {
		_, err := ParseColor(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseColor("ultraviolet")
	assert.Error(t, err)
}

func TestDrawableSkipsNonPositive(t *testing.T) {
	xys := drawable([]float64{0, 5, -1, math.Inf(1), 7})
	require.Len(t, xys, 2)
	assert.Equal(t, 1.0, xys[0].X)
	assert.Equal(t, 4.0, xys[1].X)
}

func TestSupportedOutput(t *testing.T) {
	assert.True(t, SupportedOutput("a/b/chart.PNG"))
	assert.True(t, SupportedOutput("chart.svg"))
	assert.False(t, SupportedOutput("chart.gif"))
	assert.False(t, SupportedOutput("chart"))
}
