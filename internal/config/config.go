package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all runtime configuration for a critpath session.
// Values are populated from .critpath.yaml, CRITPATH_* env vars, and CLI flags.
type Config struct {
	ProjectFile    string        `mapstructure:"project_file"`
	TimeUnit       string        `mapstructure:"time_unit"`
	PathDelimiter  string        `mapstructure:"path_delimiter"`
	SlackTolerance float64       `mapstructure:"slack_tolerance"`
	HistoryDB      string        `mapstructure:"history_db"`
	TelemetryFile  string        `mapstructure:"telemetry_file"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
	Verbose        bool          `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("project_file", "project.toml")
	viper.SetDefault("time_unit", "days")
	viper.SetDefault("path_delimiter", " → ")
	viper.SetDefault("slack_tolerance", 0.0)
	viper.SetDefault("history_db", ".critpath/history.db")
	viper.SetDefault("telemetry_file", "")
	viper.SetDefault("watch_debounce", 100*time.Millisecond)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.SlackTolerance < 0 {
		return Config{}, fmt.Errorf("%w: slack_tolerance must be >= 0, got %v", ErrInvalidConfig, cfg.SlackTolerance)
	}
	if cfg.WatchDebounce < 0 {
		return Config{}, fmt.Errorf("%w: watch_debounce must be >= 0, got %v", ErrInvalidConfig, cfg.WatchDebounce)
	}
	return cfg, nil
}
