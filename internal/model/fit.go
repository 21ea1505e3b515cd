package model

import "fmt"

// FitResult holds the exponential fit value(x) = exp(K*x + B) of one country.
type FitResult struct {
	Country      string
	K            float64
	B            float64
	DoublingTime float64
	Window       int       // number of trailing points the fit used
	Projection   []float64 // fitted value at every day of the axis
}

// Label is the legend label of the fitted curve.
func (f *FitResult) Label() string {
	return fmt.Sprintf("%s k=%.2f b=%.2f d=%.2f", f.Country, f.K, f.B, f.DoublingTime)
}

// Projection is the per-country outcome handed to the renderer.
// Fit is nil when Err is set; the observed series is drawn either way.
type Projection struct {
	Country  string
	Style    CountryStyle
	Observed []int64
	Fit      *FitResult
	Err      error
}

// HasFit reports whether a fit line can be drawn for the country.
func (p *Projection) HasFit() bool {
	return p.Fit != nil && p.Err == nil
}
