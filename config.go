package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"steptrack/calories"
	"steptrack/tracker"
)

// Config is the top-level YAML configuration for the tracker daemon.
// Defaults and validation live here so the rest of the code can assume a
// well-formed config.
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Tracker TrackerConfig `yaml:"tracker"`
	Profile ProfileConfig `yaml:"profile"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// SensorConfig selects and addresses the accelerometer bus.
type SensorConfig struct {
	Transport        string `yaml:"transport"`          // "i2c" or "spi"
	Bus              string `yaml:"bus"`                // periph bus name; empty picks the first available
	Address          uint16 `yaml:"address"`            // I2C address; 0 means the SA0-low default
	SampleIntervalMS int    `yaml:"sample_interval_ms"` // tick cadence of the sampling loop
	Battery          bool   `yaml:"battery"`            // poll the MAX17048 on the same I2C bus
}

// TrackerConfig mirrors tracker.Config in YAML form.
type TrackerConfig struct {
	ScaleG            float64 `yaml:"scale_g"`
	BaselineAlpha     float64 `yaml:"baseline_alpha"`
	ThresholdG        float64 `yaml:"threshold_g"`
	MinStepIntervalMS uint32  `yaml:"min_step_interval_ms"`
	HourlyGoal        uint16  `yaml:"hourly_goal"`
}

// ProfileConfig feeds the calorie estimate.
type ProfileConfig struct {
	WeightLbs uint16 `yaml:"weight_lbs"`
	Height    string `yaml:"height"` // "short", "medium" or "tall"
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func defaultConfig() Config {
	return Config{
		Sensor: SensorConfig{
			Transport:        "i2c",
			Address:          0,
			SampleIntervalMS: 20, // ~50 Hz
			Battery:          true,
		},
		Tracker: TrackerConfig{
			ScaleG:            tracker.DefaultScaleG,
			BaselineAlpha:     tracker.DefaultBaselineAlpha,
			ThresholdG:        tracker.DefaultThresholdG,
			MinStepIntervalMS: tracker.DefaultMinStepInterval,
			HourlyGoal:        tracker.DefaultHourlyGoal,
		},
		Profile: ProfileConfig{
			WeightLbs: 160,
			Height:    "medium",
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// loadConfig reads the YAML file at path on top of the defaults. An empty
// path returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Sensor.Transport {
	case "i2c", "spi":
	default:
		return fmt.Errorf("sensor.transport must be i2c or spi, got %q", c.Sensor.Transport)
	}
	if c.Sensor.SampleIntervalMS <= 0 {
		return fmt.Errorf("sensor.sample_interval_ms must be positive, got %d", c.Sensor.SampleIntervalMS)
	}
	if _, err := c.Profile.heightClass(); err != nil {
		return err
	}
	return nil
}

func (p ProfileConfig) heightClass() (calories.HeightClass, error) {
	switch p.Height {
	case "short":
		return calories.Short, nil
	case "", "medium":
		return calories.Medium, nil
	case "tall":
		return calories.Tall, nil
	default:
		return calories.Medium, fmt.Errorf("profile.height must be short, medium or tall, got %q", p.Height)
	}
}

func (t TrackerConfig) trackerConfig() tracker.Config {
	return tracker.Config{
		ScaleG:          t.ScaleG,
		BaselineAlpha:   t.BaselineAlpha,
		ThresholdG:      t.ThresholdG,
		MinStepInterval: t.MinStepIntervalMS,
		HourlyGoal:      t.HourlyGoal,
	}
}
