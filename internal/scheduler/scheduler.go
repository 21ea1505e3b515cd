// Package scheduler runs the load, fit and plot pipeline once or on a cron
// schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"GrowthWatch/internal/collector"
	"GrowthWatch/internal/model"
	"GrowthWatch/internal/notifier"
	"GrowthWatch/internal/projection"
)

const logPrefix = "scheduler"

// Renderer draws a run result and returns the written image path.
type Renderer interface {
	Render(ds *model.Dataset, projections []model.Projection) (string, error)
}

// Notifier delivers the run summary.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Result is the outcome of one pipeline run.
type Result struct {
	Dataset     *model.Dataset
	Projections []model.Projection
	ChartPath   string
	Summary     string
}

// Runner executes the pipeline. Runs never overlap.
type Runner struct {
	Collector *collector.Collector
	Engine    *projection.Engine
	Palette   *model.Palette
	Renderer  Renderer
	Notifier  Notifier // optional
	Retries   int
}

// NewRunner creates a Runner without a notifier.
func NewRunner(col *collector.Collector, engine *projection.Engine, palette *model.Palette, renderer Renderer) *Runner {
	return &Runner{
		Collector: col,
		Engine:    engine,
		Palette:   palette,
		Renderer:  renderer,
		Retries:   3,
	}
}

// RunOnce loads the table, fits every country and renders the chart.
// Load and render failures are returned; fit failures are carried on the
// projections. A failed notification is only logged.
func (r *Runner) RunOnce(ctx context.Context) (*Result, error) {
	ds, err := r.Collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	projections := r.Engine.Evaluate(ds, r.Palette)
	summary := notifier.FormatSummary(ds, projections, r.Engine.FitWindow)
	for _, p := range projections {
		fields := log.Fields{"prefix": logPrefix, "country": p.Country}
		if p.HasFit() {
			fields["k"] = p.Fit.K
			fields["b"] = p.Fit.B
			fields["d"] = p.Fit.DoublingTime
			log.WithFields(fields).Info("fit")
		} else {
			fields["error"] = p.Err
			log.WithFields(fields).Info("no fit")
		}
	}

	path, err := r.Renderer.Render(ds, projections)
	if err != nil {
		return nil, err
	}

	if r.Notifier != nil {
		if err := r.Notifier.SendWithRetry(ctx, summary, r.Retries); err != nil {
			log.WithFields(log.Fields{"prefix": logPrefix, "error": err}).Error("send summary")
		}
	}

	return &Result{Dataset: ds, Projections: projections, ChartPath: path, Summary: summary}, nil
}

// Run calls RunOnce at every activation of schedule until ctx is done.
// A failed run is logged and the loop waits for the next activation.
func (r *Runner) Run(ctx context.Context, schedule cron.Schedule) error {
	log.WithFields(log.Fields{"prefix": logPrefix}).Info("scheduler started")
	defer log.WithFields(log.Fields{"prefix": logPrefix}).Info("scheduler stopped")

	for {
		now := time.Now()
		next := schedule.Next(now)
		if next.IsZero() {
			log.WithFields(log.Fields{"prefix": logPrefix}).Warn("schedule has no further activations")
			return nil
		}
		log.WithFields(log.Fields{"prefix": logPrefix, "next": next.Format(time.RFC3339)}).Debug("waiting")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := r.RunOnce(ctx); err != nil {
			log.WithFields(log.Fields{"prefix": logPrefix, "error": err}).Error("scheduled run failed")
		}
	}
}
