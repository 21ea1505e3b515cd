package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gonum.org/v1/plot/vg"

	"GrowthWatch/internal/calculator"
	"GrowthWatch/internal/chart"
	"GrowthWatch/internal/collector"
	"GrowthWatch/internal/config"
	"GrowthWatch/internal/notifier"
	"GrowthWatch/internal/projection"
	"GrowthWatch/internal/scheduler"
)

func initLog(level string) {
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stderr)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func main() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}

	var (
		configFile = flag.StringP("config", "c", defaultConfig, "path of configuration file (optional)")
		days       = flag.IntP("days", "d", 30, "show only the last N days")
		fit        = flag.IntP("fit", "f", 5, "fit the curve to the last N days")
		dataset    = flag.String("dataset", "", "named dataset: confirmed, deaths or recovered")
		output     = flag.StringP("output", "o", "", "chart image path (.png, .svg, .pdf); temporary PNG when empty")
		noDisplay  = flag.Bool("no-display", false, "write the chart without opening a viewer")
		schedule   = flag.String("schedule", "", "cron expression; refresh the chart on every activation")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		initLog("info")
		log.WithField("prefix", "main").Fatalf("load config: %v", err)
	}

	// Flags override config and env.
	if flag.CommandLine.Changed("days") {
		cfg.Window.Days = *days
	}
	if flag.CommandLine.Changed("fit") {
		cfg.Window.Fit = *fit
	}
	if *dataset != "" {
		cfg.DataSource.Dataset = *dataset
		cfg.DataSource.URL = ""
	}
	if *output != "" {
		cfg.Chart.Output = *output
	}
	if *noDisplay {
		display := false
		cfg.Chart.Display = &display
	}
	if *schedule != "" {
		cfg.Schedule.Cron = *schedule
	}

	initLog(cfg.Log.Level)
	logger := log.WithField("prefix", "main")

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config validation: %v", err)
	}

	dataURL := cfg.DataURL()
	fetcher := collector.NewHTTPFetcher(dataURL, cfg.DataSource.Proxy, cfg.DataSource.Timeout)
	logger.WithField("url", dataURL).Info("data source")

	palette := cfg.Palette()
	col := collector.NewCollector(fetcher, palette, cfg.Window.Days)
	col.MinOffset = cfg.Window.FirstDayIndex
	col.Source = dataURL

	engine := projection.NewEngine(&calculator.ExponentialFitter{}, cfg.Window.Fit)

	renderer := chart.NewRenderer(chart.Options{
		Output:  cfg.Chart.Output,
		Display: cfg.ShowChart(),
		Width:   vg.Length(cfg.Chart.Width) * vg.Inch,
		Height:  vg.Length(cfg.Chart.Height) * vg.Inch,
		Title:   cfg.Chart.Title,
	})

	runner := scheduler.NewRunner(col, engine, palette, renderer)
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		runner.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		logger.Info("telegram summary enabled")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule.Cron == "" {
		res, err := runner.RunOnce(ctx)
		if err != nil {
			var fetchErr *collector.FetchError
			var parseErr *collector.ParseError
			switch {
			case errors.As(err, &fetchErr):
				logger.Fatalf("load data: %v", err)
			case errors.As(err, &parseErr):
				logger.Fatalf("parse data: %v", err)
			default:
				logger.Fatalf("run: %v", err)
			}
		}
		os.Stdout.WriteString(res.Summary)
		return
	}

	sched, err := config.ParseSchedule(cfg.Schedule.Cron)
	if err != nil {
		logger.Fatalf("parse schedule: %v", err)
	}
	if _, err := runner.RunOnce(ctx); err != nil {
		logger.WithField("error", err).Error("initial run failed")
	}
	if err := runner.Run(ctx, sched); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("scheduler: %v", err)
	}
	logger.Info("GrowthWatch stopped")
}
