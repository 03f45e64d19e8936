// Package config loads the driver configuration from JSON, applying
// defaults and validating the result.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LogConfig controls driver logging.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
}

// AppConfig is the driver configuration. Zero values are replaced by
// defaults in LoadConfig.
type AppConfig struct {
	Scheduler           string    `json:"scheduler"`   // default scheduler name
	Concurrency         int       `json:"concurrency"` // default concurrency bound
	LPRoundingTolerance float64   `json:"lp_rounding_tolerance"`
	StorePath           string    `json:"store_path,omitempty"` // bbolt run store
	Log                 LogConfig `json:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads JSON config from disk and returns a parsed AppConfig.
// It never terminates the process; callers should handle returned errors.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %q", path)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

func (c *AppConfig) setDefaults() {
	if c.Scheduler == "" {
		c.Scheduler = "greedy"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 2
	}
	if c.LPRoundingTolerance == 0 {
		c.LPRoundingTolerance = 1e-9
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *AppConfig) validate() error {
	if c.Concurrency < 1 {
		return errors.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.LPRoundingTolerance < 0 {
		return errors.New("lp_rounding_tolerance cannot be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
