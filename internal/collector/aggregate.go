package collector

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"GrowthWatch/internal/model"
)

// Column layout of the JHU time series.
const (
	CountryColumn = 1
	// MinFirstDayIndex skips Province/State, Country/Region, Lat and Long.
	MinFirstDayIndex = 4
)

// RowReader is the lazy row source consumed by Aggregate.
type RowReader interface {
	Next() ([]string, error)
}

// A row source that knows input line numbers reports them in errors;
// otherwise lines are counted one per row.
type liner interface {
	Line() int
}

// FirstDayIndex returns the first date column to keep so that at most days
// columns remain, never dipping into the metadata columns.
func FirstDayIndex(headerLen, minOffset, days int) int {
	return max(minOffset, headerLen-days)
}

// Aggregate folds rows into per-country series, summing sub-region rows.
// Rows whose country is not in the palette are skipped. width is the
// expected number of fields per row.
func Aggregate(rows RowReader, palette *model.Palette, width, firstDay int) (model.CountrySeries, error) {
	if firstDay <= CountryColumn || firstDay >= width {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("first day index %d outside header of %d columns", firstDay, width)}
	}

	series := make(model.CountrySeries)
	line := 1
	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if l, ok := rows.(liner); ok {
			line = l.Line()
		}

		if len(row) != width {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, got %d", width, len(row))}
		}
		country := strings.TrimSpace(row[CountryColumn])
		if _, ok := palette.Lookup(country); !ok {
			continue
		}

		counts, err := parseCounts(row[firstDay:])
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%s: %w", country, err)}
		}

		existing, ok := series[country]
		if !ok {
			series[country] = counts
			continue
		}
		for i := range existing {
			existing[i] += counts[i]
		}
	}
	return series, nil
}

func parseCounts(fields []string) ([]int64, error) {
	counts := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("column %d: negative count %d", i, v)
		}
		counts[i] = v
	}
	return counts, nil
}
