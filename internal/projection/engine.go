// Package projection fits the growth model to every country of a dataset.
package projection

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"GrowthWatch/internal/calculator"
	"GrowthWatch/internal/model"
)

const logPrefix = "projection"

// ErrNoGrowth marks a fit whose growth rate is not positive, so it has no
// meaningful doubling time.
var ErrNoGrowth = errors.New("growth rate is not positive")

// FitError is a per-country fit failure. It never aborts a run.
type FitError struct {
	Country string
	Err     error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fit %s: %v", e.Country, e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }

// Engine fits the trailing FitWindow points of each series.
type Engine struct {
	Fitter    calculator.Fitter
	FitWindow int
}

// NewEngine creates an Engine.
func NewEngine(fitter calculator.Fitter, fitWindow int) *Engine {
	return &Engine{Fitter: fitter, FitWindow: fitWindow}
}

// Evaluate returns one Projection per palette country found in the dataset,
// in palette order. Fit failures are recorded on the Projection.
func (e *Engine) Evaluate(ds *model.Dataset, palette *model.Palette) []model.Projection {
	xs := ds.Axis.Indices()
	var out []model.Projection

	for _, country := range palette.Countries() {
		observed, ok := ds.Series[country]
		if !ok {
			continue
		}
		style, _ := palette.Lookup(country)

		p := model.Projection{Country: country, Style: style, Observed: observed}
		fit, err := e.fit(country, xs, calculator.ToFloats(observed))
		if err != nil {
			p.Err = &FitError{Country: country, Err: err}
			log.WithFields(log.Fields{"prefix": logPrefix, "country": country, "error": err}).Warn("fit unavailable, drawing observed data only")
		} else {
			p.Fit = fit
			log.WithFields(log.Fields{
				"prefix":  logPrefix,
				"country": country,
				"k":       fit.K,
				"b":       fit.B,
				"d":       fit.DoublingTime,
			}).Debug("fit complete")
		}
		out = append(out, p)
	}
	return out
}

func (e *Engine) fit(country string, xs, ys []float64) (*model.FitResult, error) {
	start, err := calculator.TrailingWindow(len(ys), e.FitWindow)
	if err != nil {
		return nil, err
	}

	k, b, err := e.Fitter.Fit(xs[start:], ys[start:])
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w (k=%.4f)", ErrNoGrowth, k)
	}

	projected := calculator.Project(k, b, len(ys))
	for _, v := range projected {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: projection overflows", calculator.ErrNotConverged)
		}
	}

	return &model.FitResult{
		Country:      country,
		K:            k,
		B:            b,
		DoublingTime: calculator.DoublingTime(k),
		Window:       len(ys) - start,
		Projection:   projected,
	}, nil
}
