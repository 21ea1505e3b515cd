package collector

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"GrowthWatch/internal/model"
)

const logPrefix = "collector"

// StaticFetcher serves a fixed CSV body, for tests and offline runs.
type StaticFetcher struct {
	Body string
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) Fetch(_ context.Context) (*Table, error) {
	return NewTable(io.NopCloser(strings.NewReader(s.Body)))
}

// Collector orchestrates table retrieval and country aggregation.
type Collector struct {
	Fetcher   Fetcher
	Palette   *model.Palette
	Days      int // display window
	MinOffset int // first possible date column
	Source    string
}

// NewCollector creates a Collector with the JHU column layout.
func NewCollector(fetcher Fetcher, palette *model.Palette, days int) *Collector {
	return &Collector{
		Fetcher:   fetcher,
		Palette:   palette,
		Days:      days,
		MinOffset: MinFirstDayIndex,
	}
}

// Collect fetches the table and aggregates the palette countries over the
// display window.
func (c *Collector) Collect(ctx context.Context) (*model.Dataset, error) {
	table, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	if len(table.Header) <= c.MinOffset {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("header has %d columns, no date columns after %d metadata columns", len(table.Header), c.MinOffset)}
	}

	firstDay := FirstDayIndex(len(table.Header), c.MinOffset, c.Days)
	axis, err := parseAxis(table.Header[firstDay:])
	if err != nil {
		return nil, err
	}

	series, err := Aggregate(table, c.Palette, len(table.Header), firstDay)
	if err != nil {
		return nil, err
	}

	for _, country := range c.Palette.Countries() {
		if _, ok := series[country]; !ok {
			log.WithFields(log.Fields{"prefix": logPrefix, "country": country}).Warn("country not found in table")
		}
	}
	log.WithFields(log.Fields{
		"prefix":    logPrefix,
		"source":    c.Fetcher.Name(),
		"days":      axis.Len(),
		"countries": len(series),
	}).Info("table aggregated")

	return &model.Dataset{
		Source:    c.Source,
		Axis:      axis,
		Series:    series,
		FetchedAt: time.Now(),
	}, nil
}

func parseAxis(labels []string) (model.TimeAxis, error) {
	axis := model.TimeAxis{
		Labels: make([]string, len(labels)),
		Dates:  make([]time.Time, len(labels)),
	}
	for i, l := range labels {
		l = strings.TrimSpace(l)
		d, err := time.Parse(model.DateLayout, l)
		if err != nil {
			return model.TimeAxis{}, &ParseError{Line: 1, Err: fmt.Errorf("date column %q: %w", l, err)}
		}
		axis.Labels[i] = l
		axis.Dates[i] = d
	}
	return axis, nil
}
