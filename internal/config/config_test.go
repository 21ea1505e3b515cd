package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GrowthWatch/internal/collector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"GROWTHWATCH_DATA_URL", "HTTPS_PROXY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.Window.Days)
	assert.Equal(t, 5, cfg.Window.Fit)
	assert.Equal(t, collector.MinFirstDayIndex, cfg.Window.FirstDayIndex)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, collector.DatasetURLs[collector.DatasetConfirmed], cfg.DataURL())
	assert.True(t, cfg.ShowChart())
	assert.Equal(t, "info", cfg.Log.Level)

	palette := cfg.Palette()
	assert.Equal(t, []string{"US", "Austria", "Italy", "Spain", "France", "Germany", "Iran"}, palette.Countries())
	style, ok := palette.Lookup("Iran")
	require.True(t, ok)
	assert.Equal(t, "lime", style.Color)
	assert.Equal(t, "x", style.Marker)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  dataset: deaths
  timeout: 5s
window:
  days: 14
  fit: 7
countries:
  - name: Korea, South
    color: c
    marker: o
  - name: Japan
    color: orange
chart:
  output: out/cases.svg
  display: false
  title: Deaths
schedule:
  cron: "@daily"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 14, cfg.Window.Days)
	assert.Equal(t, 7, cfg.Window.Fit)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, collector.DatasetURLs[collector.DatasetDeaths], cfg.DataURL())
	assert.False(t, cfg.ShowChart())
	assert.Equal(t, []string{"Korea, South", "Japan"}, cfg.Palette().Countries())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROWTHWATCH_DATA_URL", "http://localhost/data.csv")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeConfig(t, "data_source:\n  url: http://example.com/file.csv\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost/data.csv", cfg.DataURL())
	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "window: [1, 2"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"negative days", func(c *Config) { c.Window.Days = -1 }, "window.days"},
		{"fit too small", func(c *Config) { c.Window.Fit = 1 }, "window.fit"},
		{"first day index", func(c *Config) { c.Window.FirstDayIndex = -2 }, "first_day_index"},
		{"unknown dataset", func(c *Config) { c.DataSource.Dataset = "vaccines" }, "dataset"},
		{"empty palette", func(c *Config) { c.Countries = nil }, "countries"},
		{"duplicate country", func(c *Config) {
			c.Countries = []Country{{Name: "US", Color: "r"}, {Name: "US", Color: "b"}}
		}, "listed twice"},
		{"unnamed country", func(c *Config) { c.Countries = []Country{{Color: "r"}} }, "name is required"},
		{"unknown color", func(c *Config) { c.Countries = []Country{{Name: "US", Color: "octarine"}} }, "unknown color"},
		{"unknown marker", func(c *Config) { c.Countries = []Country{{Name: "US", Color: "r", Marker: "*"}} }, "unknown marker"},
		{"image format", func(c *Config) { c.Chart.Output = "chart.gif" }, "unsupported image format"},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every day" }, "schedule.cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestValidate_URLSkipsDatasetCheck(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.DataSource.Dataset = "custom"
	cfg.DataSource.URL = "http://localhost/custom.csv"
	assert.NoError(t, cfg.Validate())
}

func TestParseSchedule(t *testing.T) {
	for _, expr := range []string{"0 8 * * *", "0 0 8 * * 1", "@hourly", "@every 6h"} {
		_, err := ParseSchedule(expr)
		assert.NoError(t, err, expr)
	}
	_, err := ParseSchedule("61 * * * *")
	assert.Error(t, err)
}
