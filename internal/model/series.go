package model

import "time"

// DateLayout is the header date format of the case time series (m/d/yy).
const DateLayout = "1/2/06"

// TimeAxis is the ordered date axis shared by every country series.
// Index i of Labels and Dates is day index i on the chart.
type TimeAxis struct {
	Labels []string
	Dates  []time.Time
}

// Len returns the number of days on the axis.
func (a TimeAxis) Len() int { return len(a.Labels) }

// Indices returns the day indices 0..Len()-1 as float64 x coordinates.
func (a TimeAxis) Indices() []float64 {
	xs := make([]float64, a.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// CountrySeries maps a country to its cumulative counts, one per axis day.
type CountrySeries map[string][]int64

// Dataset is one aggregated snapshot of the remote table.
type Dataset struct {
	Source    string
	Axis      TimeAxis
	Series    CountrySeries
	FetchedAt time.Time
}

// Last returns the most recent count for a country and whether it exists.
func (d *Dataset) Last(country string) (int64, bool) {
	values, ok := d.Series[country]
	if !ok || len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}
