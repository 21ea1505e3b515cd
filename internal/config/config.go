package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"GrowthWatch/internal/chart"
	"GrowthWatch/internal/collector"
	"GrowthWatch/internal/model"
)

// Country is one palette entry of the config file.
type Country struct {
	Name   string `yaml:"name"`
	Color  string `yaml:"color"`
	Marker string `yaml:"marker"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Dataset string        `yaml:"dataset"`
		URL     string        `yaml:"url"`
		Proxy   string        `yaml:"proxy"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Window struct {
		Days          int `yaml:"days"`
		Fit           int `yaml:"fit"`
		FirstDayIndex int `yaml:"first_day_index"`
	} `yaml:"window"`
	Countries []Country `yaml:"countries"`
	Chart     struct {
		Output  string  `yaml:"output"`
		Display *bool   `yaml:"display"`
		Width   float64 `yaml:"width"`  // inches
		Height  float64 `yaml:"height"` // inches
		Title   string  `yaml:"title"`
	} `yaml:"chart"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultCountries is the palette used when the config file names none.
var DefaultCountries = []Country{
	{Name: "US", Color: "r", Marker: "x"},
	{Name: "Austria", Color: "m", Marker: "x"},
	{Name: "Italy", Color: "g", Marker: "x"},
	{Name: "Spain", Color: "y", Marker: "x"},
	{Name: "France", Color: "b", Marker: "x"},
	{Name: "Germany", Color: "k", Marker: "x"},
	{Name: "Iran", Color: "lime", Marker: "x"},
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GROWTHWATCH_DATA_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Dataset == "" {
		c.DataSource.Dataset = collector.DatasetConfirmed
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Window.Days == 0 {
		c.Window.Days = 30
	}
	if c.Window.Fit == 0 {
		c.Window.Fit = 5
	}
	if c.Window.FirstDayIndex == 0 {
		c.Window.FirstDayIndex = collector.MinFirstDayIndex
	}
	if len(c.Countries) == 0 {
		c.Countries = append([]Country(nil), DefaultCountries...)
	}
	if c.Chart.Display == nil {
		display := true
		c.Chart.Display = &display
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 10
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 6
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// DataURL is the CSV resource to load: an explicit url wins over the
// named dataset.
func (c *Config) DataURL() string {
	if c.DataSource.URL != "" {
		return c.DataSource.URL
	}
	return collector.DatasetURLs[c.DataSource.Dataset]
}

// Palette builds the ordered country styles.
func (c *Config) Palette() *model.Palette {
	styles := make([]model.CountryStyle, 0, len(c.Countries))
	for _, ct := range c.Countries {
		styles = append(styles, model.CountryStyle{Country: ct.Name, Color: ct.Color, Marker: ct.Marker})
	}
	return model.NewPalette(styles...)
}

// ShowChart reports whether the chart is opened after rendering.
func (c *Config) ShowChart() bool {
	return c.Chart.Display == nil || *c.Chart.Display
}

// Validate checks the windows, the palette and the schedule.
func (c *Config) Validate() error {
	if c.Window.Days < 1 {
		return fmt.Errorf("window.days must be at least 1, got %d", c.Window.Days)
	}
	if c.Window.Fit < 2 {
		return fmt.Errorf("window.fit must be at least 2, got %d", c.Window.Fit)
	}
	if c.Window.FirstDayIndex < 1 {
		return fmt.Errorf("window.first_day_index must be at least 1, got %d", c.Window.FirstDayIndex)
	}
	if c.DataSource.URL == "" {
		if _, ok := collector.DatasetURLs[c.DataSource.Dataset]; !ok {
			return fmt.Errorf("data_source.dataset %q is unknown", c.DataSource.Dataset)
		}
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}

	if len(c.Countries) == 0 {
		return fmt.Errorf("countries must not be empty")
	}
	seen := make(map[string]bool, len(c.Countries))
	for i, ct := range c.Countries {
		if ct.Name == "" {
			return fmt.Errorf("countries[%d].name is required", i)
		}
		if seen[ct.Name] {
			return fmt.Errorf("country %q listed twice", ct.Name)
		}
		seen[ct.Name] = true
		if _, err := chart.ParseColor(ct.Color); err != nil {
			return fmt.Errorf("country %q: %w", ct.Name, err)
		}
		if _, err := chart.ParseMarker(ct.Marker); err != nil {
			return fmt.Errorf("country %q: %w", ct.Name, err)
		}
	}

	if c.Chart.Output != "" && !chart.SupportedOutput(c.Chart.Output) {
		return fmt.Errorf("chart.output %q: unsupported image format", c.Chart.Output)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if c.Schedule.Cron != "" {
		if _, err := ParseSchedule(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	return nil
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a cron expression with an optional seconds field,
// or a descriptor such as "@daily".
func ParseSchedule(expr string) (cron.Schedule, error) {
	return cronParser.Parse(expr)
}
