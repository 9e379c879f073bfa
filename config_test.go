package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steptrack/calories"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steptrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "i2c", cfg.Sensor.Transport)
	assert.Equal(t, 20, cfg.Sensor.SampleIntervalMS)
	assert.InDelta(t, 0.35, cfg.Tracker.ThresholdG, 1e-9)
	assert.EqualValues(t, 250, cfg.Tracker.HourlyGoal)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadConfig_OverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
sensor:
  transport: spi
  bus: SPI0.0
  sample_interval_ms: 10
tracker:
  threshold_g: 0.5
  hourly_goal: 300
profile:
  weight_lbs: 200
  height: tall
logging:
  level: debug
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "spi", cfg.Sensor.Transport)
	assert.Equal(t, "SPI0.0", cfg.Sensor.Bus)
	assert.Equal(t, 10, cfg.Sensor.SampleIntervalMS)
	assert.InDelta(t, 0.5, cfg.Tracker.ThresholdG, 1e-9)
	assert.EqualValues(t, 300, cfg.Tracker.HourlyGoal)
	// Untouched sections keep their defaults.
	assert.InDelta(t, 0.01, cfg.Tracker.BaselineAlpha, 1e-9)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)

	h, err := cfg.Profile.heightClass()
	require.NoError(t, err)
	assert.Equal(t, calories.Tall, h)
}

func TestLoadConfig_RejectsBadTransport(t *testing.T) {
	path := writeConfig(t, "sensor:\n  transport: uart\n")
	_, err := loadConfig(path)
	assert.ErrorContains(t, err, "transport")
}

func TestLoadConfig_RejectsBadHeight(t *testing.T) {
	path := writeConfig(t, "profile:\n  height: gigantic\n")
	_, err := loadConfig(path)
	assert.ErrorContains(t, err, "height")
}

func TestLoadConfig_RejectsZeroInterval(t *testing.T) {
	path := writeConfig(t, "sensor:\n  sample_interval_ms: -5\n")
	_, err := loadConfig(path)
	assert.ErrorContains(t, err, "sample_interval_ms")
}

func TestLoadConfig_MissingFileErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTrackerConfig_MapsToCoreConfig(t *testing.T) {
	cfg := defaultConfig()
	core := cfg.Tracker.trackerConfig()
	assert.InDelta(t, 0.000061, core.ScaleG, 1e-12)
	assert.EqualValues(t, 350, core.MinStepInterval)
	assert.EqualValues(t, 250, core.HourlyGoal)
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
	} {
		got, err := parseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLogLevel("loud")
	assert.Error(t, err)
}
